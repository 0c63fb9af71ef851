package partnership

import (
	"context"
	"strings"
)

type credentials struct {
	Email    string
	Password string
}

func newCredentials(email, password string) (credentials, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return credentials{}, newValidationError("Email and password are required")
	}
	return credentials{Email: email, Password: password}, nil
}

// LoginPartner checks partner credentials and issues a session token.
// Unknown e-mail and wrong password fail with the same error.
func (service *Service) LoginPartner(
	ctx context.Context, email, password string) (*Session, error) {
	request, err := newCredentials(email, password)
	if err != nil {
		return nil, err
	}

	tx, err := service.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	partner, err := findPrincipal(tx, Identity{Email: request.Email})
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrInvalidCredentials
	}
	if partner.Password == nil {
		return nil, ErrAccountNotActivated
	}
	if !partner.Password.Verify(request.Password) {
		return nil, ErrInvalidCredentials
	}
	if !partner.Approved {
		return nil, ErrPendingApproval
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}
	return &Session{Partner: partner, Token: token}, nil
}

// LoginAdmin checks admin credentials. Only bcrypt hashes are accepted.
func (service *Service) LoginAdmin(
	ctx context.Context, email, password string) (Principal, error) {
	request, err := newCredentials(email, password)
	if err != nil {
		return nil, err
	}

	tx, err := service.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	admin, err := findPrincipal(tx, Identity{Email: request.Email})
	if err != nil {
		return nil, err
	}
	if admin == nil ||
		!admin.Admin ||
		admin.Password == nil ||
		admin.Password.Scheme != PasswordSchemeBcrypt ||
		!admin.Password.Verify(request.Password) {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}
