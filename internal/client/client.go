package client

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindIndividual Kind = "individual"
	KindCompany    Kind = "company"
)

func (k Kind) Valid() bool {
	return k == KindIndividual || k == KindCompany
}

// Client is a customer or supplier transactions may point at. Document holds
// digits only: a CPF for individuals, a CNPJ for companies.
type Client struct {
	ID        uuid.UUID
	Kind      Kind
	Name      string
	Document  string
	Email     string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
}

type ListFilter struct {
	Kind   *Kind
	Active *bool
	Search string // matches name, document or email
}
