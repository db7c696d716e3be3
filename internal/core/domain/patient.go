package domain

import "errors"

var ErrPatientNotFound = errors.New("patient not found")

// Patient is the protected resource owner. Demographics only; the ownership
// pointer lives on User, not here.
type Patient struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
}
