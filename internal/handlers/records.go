package handlers

import (
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/representation"
)

type userRecord struct {
	u *models.User
}

func (r userRecord) Attribute(source string) any {
	u := r.u
	switch source {
	case "id":
		return u.ID
	case "username":
		return u.Username
	case "first_name":
		return u.FirstName
	case "last_name":
		return u.LastName
	case "name":
		return u.DisplayName()
	case "email":
		return u.Email
	case "avatar":
		return u.Avatar
	case "bio":
		return u.Bio
	case "salutation":
		return u.Salutation
	case "date_of_birth":
		return u.DateOfBirth
	case "gender":
		return u.Gender
	case "phone_home":
		return u.PhoneHome
	case "phone_work":
		return u.PhoneWork
	case "mobile":
		return u.Mobile
	case "date_joined":
		return u.DateJoined
	}
	return nil
}

func (r userRecord) Related(source string) []representation.Record {
	if source != "addresses" {
		return nil
	}
	recs := make([]representation.Record, len(r.u.Addresses))
	for i := range r.u.Addresses {
		recs[i] = addressRecord{&r.u.Addresses[i]}
	}
	return recs
}

type addressRecord struct {
	a *models.Address
}

func (r addressRecord) Attribute(source string) any {
	a := r.a
	switch source {
	case "id":
		return a.ID
	case "address1":
		return a.Address1
	case "address2":
		return a.Address2
	case "area":
		return a.Area
	case "city":
		return a.City
	case "county":
		return a.County
	case "postcode":
		return a.Postcode
	case "country":
		return a.Country
	}
	return nil
}

func (addressRecord) Related(string) []representation.Record {
	return nil
}

func userRecords(users []models.User) []representation.Record {
	recs := make([]representation.Record, len(users))
	for i := range users {
		recs[i] = userRecord{&users[i]}
	}
	return recs
}

func addressRecords(addresses []models.Address) []representation.Record {
	recs := make([]representation.Record, len(addresses))
	for i := range addresses {
		recs[i] = addressRecord{&addresses[i]}
	}
	return recs
}
