package partnership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// DB describes partnership database interface.
type DB interface {
	// Begin starts transaction, the caller must call Rollback on every exit
	// path, Rollback after Commit does nothing.
	Begin(context.Context) (DBTrans, error)
	Ping(context.Context) error
	Close() error
}

// DBTrans describes interface to execute database queries. Find-methods
// return nil without error if the record does not exist.
type DBTrans interface {
	Commit() error
	Rollback()

	// CreatePartner stores new unapproved partner without password, returns
	// nil if e-mail is already used.
	CreatePartner(PartnerApplication) (*Partner, error)
	FindPartnerByID(PartnerID) (*Partner, error)
	FindPartnerByEmail(email string) (*Partner, error)
	// ApprovePartner sets password and approval flag, returns nil if partner
	// does not exist.
	ApprovePartner(PartnerID, PasswordHash) (*Partner, error)
	// DeletePartner removes partner with leads, returns false if partner does
	// not exist.
	DeletePartner(PartnerID) (bool, error)
	GetPartners(includeAdmins bool) ([]*PartnerSummary, error)

	CreateLead(PartnerID, LeadRequest) (*Lead, error)
	// UpdateLeadStatus returns nil if lead does not exist.
	UpdateLeadStatus(
		id LeadID, status LeadStatus, commission *float64) (*Lead, error)
	GetPartnerLeads(PartnerID) ([]*Lead, error)
	GetPartnerLeadStats(PartnerID) (LeadStats, error)
	GetLeads() ([]*LeadWithPartner, error)
}

// NewDB creates new database connection pool.
func NewDB(ctx context.Context, config *Config) (DB, error) {
	handle, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf(`failed to open DB object: "%w"`, err)
	}
	handle.SetMaxOpenConns(config.DBMaxOpenConns)
	handle.SetMaxIdleConns(config.DBMaxOpenConns)
	handle.SetConnMaxIdleTime(5 * time.Minute)

	result := &db{handle: handle}
	if err = result.Ping(ctx); err != nil {
		handle.Close()
		return nil, fmt.Errorf(`failed to ping DB: "%w"`, err)
	}
	return result, nil
}

////////////////////////////////////////////////////////////////////////////////

type db struct{ handle *sql.DB }

func (db *db) Begin(ctx context.Context) (DBTrans, error) {
	tx, err := db.handle.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf(`failed to begin DB-transaction: "%w"`, err)
	}
	return &dbTrans{tx: tx, ctx: ctx}, nil
}

func (db *db) Ping(ctx context.Context) error { return db.handle.PingContext(ctx) }

func (db *db) Close() error { return db.handle.Close() }

////////////////////////////////////////////////////////////////////////////////

type dbTrans struct {
	tx  *sql.Tx
	ctx context.Context
}

func (t *dbTrans) Commit() error {
	if t.tx == nil {
		return nil
	}
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf(`failed to commit DB-transaction: "%w"`, err)
	}
	t.tx = nil
	return nil
}

func (t *dbTrans) Rollback() {
	if t.tx == nil {
		return
	}
	err := t.tx.Rollback()
	t.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		Log.Error(`Failed to rollback database transaction: "%v".`, err)
	}
}

func (t *dbTrans) isDuplicateErr(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

////////////////////////////////////////////////////////////////////////////////

const partnerColumns = `p.id, p.name, p.email, p.phone, p.traffic_source,
	p.experience, p.password_hash, p.is_approved, p.is_admin, p.created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPartner(row rowScanner, extra ...interface{}) (*Partner, error) {
	result := &Partner{}
	var passwordHash sql.NullString
	dest := []interface{}{&result.ID, &result.Name, &result.Email,
		&result.Phone, &result.TrafficSource, &result.Experience, &passwordHash,
		&result.Approved, &result.Admin, &result.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if passwordHash.Valid && passwordHash.String != "" {
		hash := ParsePasswordHash(passwordHash.String)
		result.Password = &hash
	}
	return result, nil
}

func (t *dbTrans) findPartner(query string, args ...interface{}) (*Partner, error) {
	result, err := scanPartner(t.tx.QueryRowContext(t.ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return result, nil
}

func (t *dbTrans) CreatePartner(
	application PartnerApplication) (*Partner, error) {
	query := `INSERT INTO partners(
			name, email, phone, traffic_source, experience, is_approved, is_admin)
		VALUES($1, $2, $3, $4, $5, false, false)
		RETURNING id, created_at`
	result := &Partner{
		Name:          application.Name,
		Email:         application.Email,
		Phone:         application.Phone,
		TrafficSource: application.TrafficSource,
		Experience:    application.Experience}
	err := t.tx.QueryRowContext(t.ctx, query,
		application.Name, application.Email, application.Phone,
		application.TrafficSource, application.Experience).
		Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		if t.isDuplicateErr(err) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (t *dbTrans) FindPartnerByID(id PartnerID) (*Partner, error) {
	return t.findPartner(
		`SELECT `+partnerColumns+` FROM partners p WHERE p.id = $1`, id)
}

func (t *dbTrans) FindPartnerByEmail(email string) (*Partner, error) {
	return t.findPartner(
		`SELECT `+partnerColumns+` FROM partners p
			WHERE lower(p.email) = lower($1)`,
		email)
}

func (t *dbTrans) ApprovePartner(
	id PartnerID, password PasswordHash) (*Partner, error) {
	return t.findPartner(
		`UPDATE partners p SET is_approved = true, password_hash = $2
			WHERE p.id = $1
			RETURNING `+partnerColumns,
		id, password.Data)
}

func (t *dbTrans) DeletePartner(id PartnerID) (bool, error) {
	result, err := t.tx.ExecContext(t.ctx,
		`DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	var rowsAffected int64
	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return true, err
	}
	return rowsAffected > 0, nil
}

func (t *dbTrans) GetPartners(includeAdmins bool) ([]*PartnerSummary, error) {
	query := `SELECT ` + partnerColumns + `,
			COUNT(l.id) AS leads_count,
			COALESCE(SUM(CASE WHEN l.status = 'approved'
				THEN l.commission_amount ELSE 0 END), 0) AS total_commission
		FROM partners p
		LEFT JOIN leads l ON l.partner_id = p.id
		WHERE $1::boolean OR p.is_admin = false
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id DESC`
	rows, err := t.tx.QueryContext(t.ctx, query, includeAdmins)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*PartnerSummary{}
	for rows.Next() {
		var leadsCount int64
		var totalCommission float64
		partner, err := scanPartner(rows, &leadsCount, &totalCommission)
		if err != nil {
			return nil, err
		}
		result = append(result, &PartnerSummary{
			Partner:         *partner,
			LeadsCount:      leadsCount,
			TotalCommission: totalCommission})
	}
	return result, rows.Err()
}

////////////////////////////////////////////////////////////////////////////////

const leadColumns = `l.id, l.partner_id, l.client_name, l.client_phone,
	l.client_email, l.extra_info, l.estimate_amount, l.notes, l.status,
	l.commission_amount, l.created_at, l.updated_at`

func scanLead(row rowScanner, extra ...interface{}) (*Lead, error) {
	result := &Lead{}
	var estimate sql.NullFloat64
	var commission sql.NullFloat64
	var status string
	dest := []interface{}{&result.ID, &result.PartnerID, &result.ClientName,
		&result.ClientPhone, &result.ClientEmail, &result.ExtraInfo, &estimate,
		&result.Notes, &status, &commission, &result.CreatedAt, &result.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	result.Status = LeadStatus(status)
	result.EstimateAmount = nullFloat64Ptr(estimate)
	result.CommissionAmount = nullFloat64Ptr(commission)
	return result, nil
}

func (t *dbTrans) CreateLead(
	partner PartnerID, request LeadRequest) (*Lead, error) {
	query := `INSERT INTO leads AS l(
			partner_id, client_name, client_phone, client_email, extra_info,
			estimate_amount, notes, status)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + leadColumns
	return scanLead(t.tx.QueryRowContext(t.ctx, query,
		partner, request.ClientName, request.ClientPhone, request.ClientEmail,
		request.ExtraInfo, float64PtrToNull(request.EstimateAmount),
		request.Notes, string(LeadStatusNew)))
}

func (t *dbTrans) UpdateLeadStatus(
	id LeadID, status LeadStatus, commission *float64) (*Lead, error) {
	query := `UPDATE leads l
		SET status = $2, commission_amount = $3, updated_at = NOW()
		WHERE l.id = $1
		RETURNING ` + leadColumns
	result, err := scanLead(t.tx.QueryRowContext(t.ctx, query,
		id, string(status), float64PtrToNull(commission)))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return result, nil
}

func (t *dbTrans) GetPartnerLeads(partner PartnerID) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads l
		WHERE l.partner_id = $1
		ORDER BY l.created_at DESC, l.id DESC`
	rows, err := t.tx.QueryContext(t.ctx, query, partner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}

func (t *dbTrans) GetPartnerLeadStats(partner PartnerID) (LeadStats, error) {
	query := `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COALESCE(SUM(commission_amount) FILTER (WHERE status = 'approved'), 0)
		FROM leads
		WHERE partner_id = $1`
	var result LeadStats
	err := t.tx.QueryRowContext(t.ctx, query, partner).
		Scan(&result.TotalLeads, &result.ApprovedLeads, &result.TotalCommission)
	return result, err
}

func (t *dbTrans) GetLeads() ([]*LeadWithPartner, error) {
	query := `SELECT ` + leadColumns + `, p.name, p.email
		FROM leads l
		JOIN partners p ON p.id = l.partner_id
		ORDER BY l.created_at DESC, l.id DESC`
	rows, err := t.tx.QueryContext(t.ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*LeadWithPartner{}
	for rows.Next() {
		var partnerName, partnerEmail string
		lead, err := scanLead(rows, &partnerName, &partnerEmail)
		if err != nil {
			return nil, err
		}
		result = append(result, &LeadWithPartner{
			Lead:         *lead,
			PartnerName:  partnerName,
			PartnerEmail: partnerEmail})
	}
	return result, rows.Err()
}
