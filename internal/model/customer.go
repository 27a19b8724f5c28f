package model

import "time"

// Level specifies how valuable customer is
type Level string

const (
	// LevelNormal means regular customer
	LevelNormal Level = "normal"
	// LevelImportant means customer requires increased attention
	LevelImportant Level = "important"
	// LevelVIP means top-priority customer
	LevelVIP Level = "vip"
)

// Progress specifies the deal stage customer is currently at
type Progress string

const (
	// ProgressUncontacted means no contact has been made yet
	ProgressUncontacted Progress = "uncontacted"
	// ProgressNegotiating means the deal is being discussed
	ProgressNegotiating Progress = "negotiating"
	// ProgressClosedWon means the deal was closed successfully
	ProgressClosedWon Progress = "closed-won"
	// ProgressLost means customer was lost
	ProgressLost Progress = "lost"
)

// Customer is customer model entity. MainOwner is nil when no user
// is responsible for the record yet. Assistant is a free-text
// comma-joined list of helper usernames. ID and CreatedAt are
// immutable once assigned.
type Customer struct {
	ID         string    `json:"id" msgpack:"id"`
	Name       string    `json:"name" msgpack:"name"`
	WhatsApp   string    `json:"whatsapp" msgpack:"whatsapp"`
	Line       string    `json:"line" msgpack:"line"`
	Telegram   string    `json:"telegram" msgpack:"telegram"`
	Country    string    `json:"country" msgpack:"country"`
	City       string    `json:"city" msgpack:"city"`
	Age        int       `json:"age" msgpack:"age"`
	Job        string    `json:"job" msgpack:"job"`
	Income     string    `json:"income" msgpack:"income"`
	Relation   string    `json:"relation" msgpack:"relation"`
	DealAmount float64   `json:"dealAmount" msgpack:"dealAmount"`
	Level      Level     `json:"level" msgpack:"level"`
	Progress   Progress  `json:"progress" msgpack:"progress"`
	MainOwner  *string   `json:"mainOwner" msgpack:"mainOwner"`
	Assistant  string    `json:"assistant" msgpack:"assistant"`
	Remark     string    `json:"remark" msgpack:"remark"`
	CreatedAt  time.Time `json:"createdAt" msgpack:"createdAt"`
}

// CustomerPatch carries partial customer changes - only non-nil fields
// are applied. ID and CreatedAt are absent on purpose, so they can never
// enter an update set.
type CustomerPatch struct {
	Name       *string   `json:"name"`
	WhatsApp   *string   `json:"whatsapp"`
	Line       *string   `json:"line"`
	Telegram   *string   `json:"telegram"`
	Country    *string   `json:"country"`
	City       *string   `json:"city"`
	Age        *int      `json:"age"`
	Job        *string   `json:"job"`
	Income     *string   `json:"income"`
	Relation   *string   `json:"relation"`
	DealAmount *float64  `json:"dealAmount"`
	Level      *Level    `json:"level"`
	Progress   *Progress `json:"progress"`
	MainOwner  *string   `json:"mainOwner"`
	Assistant  *string   `json:"assistant"`
	Remark     *string   `json:"remark"`
}

// Apply merges non-nil patch fields into customer
func (p *CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.WhatsApp != nil {
		c.WhatsApp = *p.WhatsApp
	}
	if p.Line != nil {
		c.Line = *p.Line
	}
	if p.Telegram != nil {
		c.Telegram = *p.Telegram
	}
	if p.Country != nil {
		c.Country = *p.Country
	}
	if p.City != nil {
		c.City = *p.City
	}
	if p.Age != nil {
		c.Age = *p.Age
	}
	if p.Job != nil {
		c.Job = *p.Job
	}
	if p.Income != nil {
		c.Income = *p.Income
	}
	if p.Relation != nil {
		c.Relation = *p.Relation
	}
	if p.DealAmount != nil {
		c.DealAmount = *p.DealAmount
	}
	if p.Level != nil {
		c.Level = *p.Level
	}
	if p.Progress != nil {
		c.Progress = *p.Progress
	}
	if p.MainOwner != nil {
		c.MainOwner = p.MainOwner
	}
	if p.Assistant != nil {
		c.Assistant = *p.Assistant
	}
	if p.Remark != nil {
		c.Remark = *p.Remark
	}
}
