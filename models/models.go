package models

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Product{},
		&Order{},
		&OrderItem{},
		&UPIProof{},
		&SiteSetting{},
		&SupportTicket{},
		&TicketReply{},
		&WishlistItem{},
	}
}
