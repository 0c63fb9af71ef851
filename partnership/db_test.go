package partnership_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/palchukovsky/partnership-aws/partnership"
	"github.com/palchukovsky/partnership-aws/partnership/partnershiptest"
)

// setupPostgres starts Postgres in a container and returns its config.
func setupPostgres(t *testing.T) *partnership.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("database integration test is skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	request := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "partnership",
			"POSTGRES_PASSWORD": "partnership",
			"POSTGRES_DB":       "partnership",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: request,
			Started:          true,
		})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return &partnership.Config{
		DatabaseURL: fmt.Sprintf(
			"postgres://partnership:partnership@%s:%s/partnership?sslmode=disable",
			host, port.Port()),
		DBMaxOpenConns: 2,
	}
}

func TestPostgresWorkflow(t *testing.T) {
	config := setupPostgres(t)
	ctx := context.Background()

	// Legacy deployments keep admins in a separate table.
	legacy, err := sql.Open("postgres", config.DatabaseURL)
	require.NoError(t, err)
	adminHash, err := partnership.HashPassword("adminpass")
	require.NoError(t, err)
	_, err = legacy.ExecContext(ctx, `CREATE TABLE admins (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(255))`)
	require.NoError(t, err)
	_, err = legacy.ExecContext(ctx,
		`INSERT INTO admins(email, password_hash, name) VALUES($1, $2, $3)`,
		"admin@example.com", adminHash.Data, "Admin")
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	version, err := partnership.ApplyMigrations(config)
	require.NoError(t, err)
	require.Equal(t, uint(2), version)
	version, err = partnership.ApplyMigrations(config)
	require.NoError(t, err)
	require.Equal(t, uint(2), version)

	db, err := partnership.NewDB(ctx, config)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mailer := &partnershiptest.Mailer{}
	service := partnership.NewService(db, mailer)

	admin, err := service.LoginAdmin(ctx, "ADMIN@example.com", "adminpass")
	require.NoError(t, err)
	adminIdentity := partnership.Identity{Email: admin.GetEmail()}

	partner, err := service.RegisterPartner(ctx, partnership.PartnerApplication{
		Name:          "Jane",
		Email:         "jane@x.com",
		Phone:         "5551234567",
		TrafficSource: "blog",
	})
	require.NoError(t, err)
	require.False(t, partner.Approved)

	_, err = service.RegisterPartner(ctx, partnership.PartnerApplication{
		Name:  "Jane",
		Email: "Jane@X.com",
		Phone: "5551234567",
	})
	require.ErrorIs(t, err, partnership.ErrEmailAlreadyUsed)

	_, err = service.LoginPartner(ctx, "jane@x.com", "secret1")
	require.ErrorIs(t, err, partnership.ErrAccountNotActivated)

	_, err = service.CreateLead(ctx, partnership.Identity{ID: &partner.ID},
		partnership.LeadRequest{ClientName: "Client", ClientPhone: "555"})
	require.ErrorIs(t, err, partnership.ErrPartnerNotApproved)

	approved, err := service.ApprovePartner(ctx, adminIdentity, partner.ID,
		"secret1")
	require.NoError(t, err)
	require.True(t, approved.Approved)
	require.Equal(t, partnership.PasswordSchemeBcrypt, approved.Password.Scheme)

	session, err := service.LoginPartner(ctx, "jane@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, partner.ID, session.Partner.GetID())

	estimate := 1200.0
	lead, err := service.CreateLead(ctx,
		partnership.Identity{Email: "jane@x.com"},
		partnership.LeadRequest{
			ClientName:     "Client",
			ClientPhone:    "5557654321",
			ExtraInfo:      "Main street 1",
			EstimateAmount: &estimate,
		})
	require.NoError(t, err)
	require.Equal(t, partnership.LeadStatusNew, lead.Status)
	require.Nil(t, lead.CommissionAmount)
	require.Equal(t, estimate, *lead.EstimateAmount)

	commission := 150.0
	updated, err := service.UpdateLeadStatus(ctx, adminIdentity,
		partnership.LeadStatusUpdate{
			LeadID:           lead.ID,
			Status:           "approved",
			CommissionAmount: &commission,
		})
	require.NoError(t, err)
	require.Equal(t, commission, *updated.CommissionAmount)

	_, err = service.UpdateLeadStatus(ctx, adminIdentity,
		partnership.LeadStatusUpdate{LeadID: lead.ID + 100, Status: "approved"})
	require.ErrorIs(t, err, partnership.ErrLeadNotFound)

	leads, err := service.ListPartnerLeads(ctx, partnership.Identity{},
		partner.ID)
	require.NoError(t, err)
	require.Len(t, leads.Leads, 1)
	require.Equal(t, partnership.LeadStats{
		TotalLeads:      1,
		ApprovedLeads:   1,
		TotalCommission: 150,
	}, leads.Stats)

	partners, err := service.ListPartners(ctx,
		partnership.PartnerListRequest{Admin: adminIdentity})
	require.NoError(t, err)
	require.Len(t, partners, 1)
	require.Equal(t, int64(1), partners[0].LeadsCount)
	require.Equal(t, 150.0, partners[0].TotalCommission)

	partners, err = service.ListPartners(ctx, partnership.PartnerListRequest{
		Admin:         adminIdentity,
		IncludeAdmins: true})
	require.NoError(t, err)
	require.Len(t, partners, 2)

	all, err := service.ListLeads(ctx, adminIdentity)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "Jane", all[0].PartnerName)

	require.NoError(t, service.RejectPartner(ctx, adminIdentity, partner.ID))
	require.ErrorIs(t, service.RejectPartner(ctx, adminIdentity, partner.ID),
		partnership.ErrPartnerNotFound)
	all, err = service.ListLeads(ctx, adminIdentity)
	require.NoError(t, err)
	require.Empty(t, all)
}
