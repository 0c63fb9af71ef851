// Package partnershiptest provides an in-memory partnership store for tests.
package partnershiptest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/palchukovsky/partnership-aws/partnership"
)

// DB is an in-memory partnership.DB. Each transaction works on a copy of
// the state, commit replaces the state by the copy.
type DB struct {
	// Failure is returned by Begin and Ping if set.
	Failure error

	mutex sync.Mutex
	state state
	clock time.Time
}

// NewDB creates new empty store.
func NewDB() *DB {
	return &DB{
		state: newState(),
		clock: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (db *DB) Begin(context.Context) (partnership.DBTrans, error) {
	if db.Failure != nil {
		return nil, db.Failure
	}
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return &trans{db: db, state: db.state.clone()}, nil
}

func (db *DB) Ping(context.Context) error { return db.Failure }

func (db *DB) Close() error { return nil }

func (db *DB) now() time.Time {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

// AddPartner stores the partner as is, ID and creation time are assigned if
// not set.
func (db *DB) AddPartner(partner partnership.Partner) *partnership.Partner {
	if partner.CreatedAt.IsZero() {
		partner.CreatedAt = db.now()
	}
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if partner.ID == 0 {
		db.state.lastPartnerID++
		partner.ID = db.state.lastPartnerID
	} else if partner.ID > db.state.lastPartnerID {
		db.state.lastPartnerID = partner.ID
	}
	db.state.partners[partner.ID] = copyPartner(&partner)
	return copyPartner(&partner)
}

// AddAdmin stores an approved admin with the bcrypt password.
func (db *DB) AddAdmin(name, email, password string) *partnership.Partner {
	hash, err := partnership.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return db.AddPartner(partnership.Partner{
		Name:     name,
		Email:    email,
		Password: &hash,
		Approved: true,
		Admin:    true,
	})
}

// AddLead stores the lead as is, ID and times are assigned if not set.
func (db *DB) AddLead(lead partnership.Lead) *partnership.Lead {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = db.now()
	}
	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = lead.CreatedAt
	}
	if lead.Status == "" {
		lead.Status = partnership.LeadStatusNew
	}
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if lead.ID == 0 {
		db.state.lastLeadID++
		lead.ID = db.state.lastLeadID
	}
	db.state.leads[lead.ID] = copyLead(&lead)
	return copyLead(&lead)
}

// GetPartner returns stored partner or nil.
func (db *DB) GetPartner(id partnership.PartnerID) *partnership.Partner {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if partner, has := db.state.partners[id]; has {
		return copyPartner(partner)
	}
	return nil
}

// GetLead returns stored lead or nil.
func (db *DB) GetLead(id partnership.LeadID) *partnership.Lead {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if lead, has := db.state.leads[id]; has {
		return copyLead(lead)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

type state struct {
	partners      map[partnership.PartnerID]*partnership.Partner
	leads         map[partnership.LeadID]*partnership.Lead
	lastPartnerID partnership.PartnerID
	lastLeadID    partnership.LeadID
}

func newState() state {
	return state{
		partners: map[partnership.PartnerID]*partnership.Partner{},
		leads:    map[partnership.LeadID]*partnership.Lead{},
	}
}

func (s state) clone() state {
	result := newState()
	for id, partner := range s.partners {
		result.partners[id] = copyPartner(partner)
	}
	for id, lead := range s.leads {
		result.leads[id] = copyLead(lead)
	}
	result.lastPartnerID = s.lastPartnerID
	result.lastLeadID = s.lastLeadID
	return result
}

func copyPartner(source *partnership.Partner) *partnership.Partner {
	result := *source
	if source.Password != nil {
		password := *source.Password
		result.Password = &password
	}
	return &result
}

func copyLead(source *partnership.Lead) *partnership.Lead {
	result := *source
	result.EstimateAmount = copyAmount(source.EstimateAmount)
	result.CommissionAmount = copyAmount(source.CommissionAmount)
	return &result
}

func copyAmount(source *float64) *float64 {
	if source == nil {
		return nil
	}
	result := *source
	return &result
}

////////////////////////////////////////////////////////////////////////////////

type trans struct {
	db     *DB
	state  state
	isDone bool
}

func (t *trans) Commit() error {
	if t.isDone {
		return nil
	}
	t.db.mutex.Lock()
	defer t.db.mutex.Unlock()
	t.db.state = t.state
	t.isDone = true
	return nil
}

func (t *trans) Rollback() { t.isDone = true }

func (t *trans) findByEmail(email string) *partnership.Partner {
	for _, partner := range t.state.partners {
		if strings.EqualFold(partner.Email, email) {
			return partner
		}
	}
	return nil
}

func (t *trans) CreatePartner(
	application partnership.PartnerApplication) (*partnership.Partner, error) {
	if t.findByEmail(application.Email) != nil {
		return nil, nil
	}
	t.state.lastPartnerID++
	partner := &partnership.Partner{
		ID:            t.state.lastPartnerID,
		Name:          application.Name,
		Email:         application.Email,
		Phone:         application.Phone,
		TrafficSource: application.TrafficSource,
		Experience:    application.Experience,
		CreatedAt:     t.db.now(),
	}
	t.state.partners[partner.ID] = partner
	return copyPartner(partner), nil
}

func (t *trans) FindPartnerByID(
	id partnership.PartnerID) (*partnership.Partner, error) {
	if partner, has := t.state.partners[id]; has {
		return copyPartner(partner), nil
	}
	return nil, nil
}

func (t *trans) FindPartnerByEmail(email string) (*partnership.Partner, error) {
	if partner := t.findByEmail(email); partner != nil {
		return copyPartner(partner), nil
	}
	return nil, nil
}

func (t *trans) ApprovePartner(
	id partnership.PartnerID,
	password partnership.PasswordHash,
) (*partnership.Partner, error) {
	partner, has := t.state.partners[id]
	if !has {
		return nil, nil
	}
	partner.Password = &password
	partner.Approved = true
	return copyPartner(partner), nil
}

func (t *trans) DeletePartner(id partnership.PartnerID) (bool, error) {
	if _, has := t.state.partners[id]; !has {
		return false, nil
	}
	delete(t.state.partners, id)
	for leadID, lead := range t.state.leads {
		if lead.PartnerID == id {
			delete(t.state.leads, leadID)
		}
	}
	return true, nil
}

func (t *trans) GetPartners(
	includeAdmins bool) ([]*partnership.PartnerSummary, error) {
	result := []*partnership.PartnerSummary{}
	for _, partner := range t.state.partners {
		if partner.Admin && !includeAdmins {
			continue
		}
		summary := &partnership.PartnerSummary{Partner: *copyPartner(partner)}
		for _, lead := range t.state.leads {
			if lead.PartnerID == partner.ID {
				summary.LeadsCount++
				summary.TotalCommission += lead.GetEarnedCommission()
			}
		}
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool {
		return isNewer(result[i].CreatedAt, result[i].ID,
			result[j].CreatedAt, result[j].ID)
	})
	return result, nil
}

func (t *trans) CreateLead(
	partner partnership.PartnerID,
	request partnership.LeadRequest,
) (*partnership.Lead, error) {
	if _, has := t.state.partners[partner]; !has {
		return nil, errForeignKey
	}
	t.state.lastLeadID++
	now := t.db.now()
	lead := &partnership.Lead{
		ID:             t.state.lastLeadID,
		PartnerID:      partner,
		ClientName:     request.ClientName,
		ClientPhone:    request.ClientPhone,
		ClientEmail:    request.ClientEmail,
		ExtraInfo:      request.ExtraInfo,
		EstimateAmount: copyAmount(request.EstimateAmount),
		Notes:          request.Notes,
		Status:         partnership.LeadStatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	t.state.leads[lead.ID] = lead
	return copyLead(lead), nil
}

func (t *trans) UpdateLeadStatus(
	id partnership.LeadID,
	status partnership.LeadStatus,
	commission *float64,
) (*partnership.Lead, error) {
	lead, has := t.state.leads[id]
	if !has {
		return nil, nil
	}
	lead.Status = status
	lead.CommissionAmount = copyAmount(commission)
	lead.UpdatedAt = t.db.now()
	return copyLead(lead), nil
}

func (t *trans) GetPartnerLeads(
	partner partnership.PartnerID) ([]*partnership.Lead, error) {
	result := []*partnership.Lead{}
	for _, lead := range t.state.leads {
		if lead.PartnerID == partner {
			result = append(result, copyLead(lead))
		}
	}
	sortLeads(result)
	return result, nil
}

func (t *trans) GetPartnerLeadStats(
	partner partnership.PartnerID) (partnership.LeadStats, error) {
	var result partnership.LeadStats
	for _, lead := range t.state.leads {
		if lead.PartnerID != partner {
			continue
		}
		result.TotalLeads++
		if lead.Status == partnership.LeadStatusApproved {
			result.ApprovedLeads++
			result.TotalCommission += lead.GetEarnedCommission()
		}
	}
	return result, nil
}

func (t *trans) GetLeads() ([]*partnership.LeadWithPartner, error) {
	leads := make([]*partnership.Lead, 0, len(t.state.leads))
	for _, lead := range t.state.leads {
		leads = append(leads, copyLead(lead))
	}
	sortLeads(leads)
	result := make([]*partnership.LeadWithPartner, 0, len(leads))
	for _, lead := range leads {
		record := &partnership.LeadWithPartner{Lead: *lead}
		if partner, has := t.state.partners[lead.PartnerID]; has {
			record.PartnerName = partner.Name
			record.PartnerEmail = partner.Email
		}
		result = append(result, record)
	}
	return result, nil
}

////////////////////////////////////////////////////////////////////////////////

func sortLeads(leads []*partnership.Lead) {
	sort.Slice(leads, func(i, j int) bool {
		return isNewer(leads[i].CreatedAt, leads[i].ID,
			leads[j].CreatedAt, leads[j].ID)
	})
}

func isNewer(lhsTime time.Time, lhsID int64, rhsTime time.Time, rhsID int64) bool {
	if !lhsTime.Equal(rhsTime) {
		return lhsTime.After(rhsTime)
	}
	return lhsID > rhsID
}
