package banking

import (
	"errors"
	"time"
)

const UnknownInstitution = "Unknown Bank"

var ErrNoBanksConnected = errors.New("no banks connected")

// Link is a connected bank item. AccessToken is the decrypted provider
// credential and never leaves the service.
type Link struct {
	ID              string
	UserID          string
	AccessToken     string
	ItemID          string
	InstitutionName string
	Cursor          string // empty until the first page is applied
	CreatedAt       time.Time
}
