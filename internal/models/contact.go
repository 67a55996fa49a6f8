package models

import (
	"strings"

	rolodex "rolodex/lib"
)

// Contact is a single address-book entry.
type Contact struct {
	rolodex.Model
	FirstName string   `db:"first_name" json:"firstName" validate:"required" desc:"Given name" ex:"Jane"`
	LastName  string   `db:"last_name" json:"lastName" validate:"required" desc:"Family name" ex:"Doe"`
	Email     string   `db:"email" json:"email" validate:"required" desc:"Unique email address, stored lowercased" ex:"jane.doe@example.com"`
	Phone     string   `db:"phone" json:"phone" validate:"required" desc:"Phone number" ex:"+1 555 0100"`
	Address   string   `db:"address" json:"address" validate:"required" desc:"Postal address" ex:"123 Main St, Anytown"`
	Company   string   `db:"company" json:"company" validate:"required" desc:"Employer" ex:"Acme"`
	Title     string   `db:"title" json:"title" validate:"required" desc:"Job title" ex:"Engineer"`
	Tags      []string `db:"tags" json:"tags" desc:"Free-form labels" ex:"customer,vip"`
}

// ContactPayload is the writable part of a contact, accepted by create and replace.
type ContactPayload struct {
	FirstName string   `json:"firstName" validate:"required" desc:"Given name" ex:"Jane"`
	LastName  string   `json:"lastName" validate:"required" desc:"Family name" ex:"Doe"`
	Email     string   `json:"email" validate:"required" desc:"Unique email address" ex:"jane.doe@example.com"`
	Phone     string   `json:"phone" validate:"required" desc:"Phone number" ex:"+1 555 0100"`
	Address   string   `json:"address" validate:"required" desc:"Postal address" ex:"123 Main St, Anytown"`
	Company   string   `json:"company" validate:"required" desc:"Employer" ex:"Acme"`
	Title     string   `json:"title" validate:"required" desc:"Job title" ex:"Engineer"`
	Tags      []string `json:"tags" desc:"Free-form labels" ex:"customer,vip"`
}

// Contact converts the payload into an unsaved contact.
func (p ContactPayload) Contact() *Contact {
	return &Contact{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		Company:   p.Company,
		Title:     p.Title,
		Tags:      p.Tags,
	}
}

// Normalize trims text fields, lowercases the email and defaults tags to an
// empty list. It runs before validation.
func (c *Contact) Normalize() {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Company = strings.TrimSpace(c.Company)
	c.Title = strings.TrimSpace(c.Title)

	if c.Tags == nil {
		c.Tags = []string{}
	}
}

// Clone returns a deep copy.
func (c *Contact) Clone() *Contact {
	out := *c
	out.Tags = append([]string{}, c.Tags...)
	return &out
}
