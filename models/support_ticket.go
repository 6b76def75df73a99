package models

import "time"

const (
	TicketOpen    = "open"
	TicketPending = "pending"
	TicketClosed  = "closed"
)

// IsValidTicketStatus reports whether status is open, pending or closed
func IsValidTicketStatus(status string) bool {
	return status == TicketOpen || status == TicketPending || status == TicketClosed
}

// SupportTicket is a customer support thread, independent of the order workflow
type SupportTicket struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"userId"`
	User      User          `gorm:"foreignKey:UserID" json:"user"`
	Subject   string        `gorm:"not null" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    string        `gorm:"not null;default:'open';index" json:"status"`
	OrderID   *string       `gorm:"type:varchar(36);index" json:"orderId"`
	ProductID *uint         `gorm:"index" json:"productId"`
	Replies   []TicketReply `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"replies"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for the SupportTicket model
func (SupportTicket) TableName() string {
	return "support_tickets"
}

// TicketReply is an append-only message on a support ticket
type TicketReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"not null;index" json:"ticketId"`
	AuthorID  uint      `gorm:"not null;index" json:"authorId"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for the TicketReply model
func (TicketReply) TableName() string {
	return "ticket_replies"
}
