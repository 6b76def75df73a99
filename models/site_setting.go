package models

import "time"

// SiteSetting is the per-domain configuration singleton
type SiteSetting struct {
	ID        uint             `gorm:"primaryKey" json:"-"`
	Domain    string           `gorm:"uniqueIndex;not null" json:"domain"`
	Payment   PaymentSettings  `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Shipping  ShippingSettings `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TableName specifies the table name for the SiteSetting model
func (SiteSetting) TableName() string {
	return "site_settings"
}

// PaymentSettings are shown to customers at checkout; order processing never reads them
type PaymentSettings struct {
	UPIQRImage      string `json:"upiQrImage"`
	UPIID           string `json:"upiId"`
	BeneficiaryName string `json:"beneficiaryName"`
	Instructions    string `gorm:"type:text" json:"instructions"`
}

// ShippingSettings holds shipping integration credentials
type ShippingSettings struct {
	Shiprocket ShiprocketSettings `gorm:"embedded;embeddedPrefix:shiprocket_" json:"shiprocket"`
}

// ShiprocketSettings are stored only; the integration is never called
type ShiprocketSettings struct {
	Enabled   bool   `json:"enabled"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	APIKey    string `json:"apiKey"`
	Secret    string `json:"secret"`
	ChannelID string `json:"channelId"`
}

// DefaultSiteSetting returns the values a domain starts with on first access
func DefaultSiteSetting(domain string) SiteSetting {
	return SiteSetting{
		Domain: domain,
		Payment: PaymentSettings{
			Instructions: "Scan QR and pay. Enter UTR/Txn ID on next step.",
		},
		Shipping: ShippingSettings{
			Shiprocket: ShiprocketSettings{Enabled: true},
		},
	}
}
