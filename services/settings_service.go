package services

import (
	"context"

	"github.com/uni10/storefront-api/models"
	"gorm.io/gorm"
)

// SecretMask replaces stored credentials in admin responses
const SecretMask = "********"

// GetSiteSetting returns the settings row for domain, creating it with
// defaults on first access. Two first requests racing on the unique domain
// index resolve by re-reading the winner's row.
func GetSiteSetting(ctx context.Context, db *gorm.DB, domain string) (*models.SiteSetting, error) {
	defaults := models.DefaultSiteSetting(domain)

	var setting models.SiteSetting
	err := db.WithContext(ctx).
		Where(models.SiteSetting{Domain: domain}).
		Attrs(defaults).
		FirstOrCreate(&setting).Error
	if IsUniqueViolation(err) {
		setting = models.SiteSetting{}
		err = db.WithContext(ctx).Where("domain = ?", domain).First(&setting).Error
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// MaskSecrets returns a copy of setting safe to show in the admin console
func MaskSecrets(setting models.SiteSetting) models.SiteSetting {
	sr := &setting.Shipping.Shiprocket
	sr.Password = maskValue(sr.Password)
	sr.APIKey = maskValue(sr.APIKey)
	sr.Secret = maskValue(sr.Secret)
	return setting
}

func maskValue(value string) string {
	if value == "" {
		return ""
	}
	return SecretMask
}

// PaymentSettingsUpdate is a partial update of the payment block
type PaymentSettingsUpdate struct {
	UPIQRImage      *string `json:"upiQrImage"`
	UPIID           *string `json:"upiId"`
	BeneficiaryName *string `json:"beneficiaryName"`
	Instructions    *string `json:"instructions"`
}

// ShiprocketSettingsUpdate is a partial update of the Shiprocket credentials
type ShiprocketSettingsUpdate struct {
	Enabled   *bool   `json:"enabled"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	APIKey    *string `json:"apiKey"`
	Secret    *string `json:"secret"`
	ChannelID *string `json:"channelId"`
}

// SettingsUpdate is the body of PUT /admin/settings
type SettingsUpdate struct {
	Payment  *PaymentSettingsUpdate `json:"payment"`
	Shipping *struct {
		Shiprocket *ShiprocketSettingsUpdate `json:"shiprocket"`
	} `json:"shipping"`
}

// IsEmpty reports whether the update carries no field at all
func (u SettingsUpdate) IsEmpty() bool {
	return u.Payment == nil && (u.Shipping == nil || u.Shipping.Shiprocket == nil)
}

// Apply copies the present fields onto setting. Secrets echoed back as the
// mask are ignored so a round-tripped form never overwrites a credential.
func (u SettingsUpdate) Apply(setting *models.SiteSetting) {
	if p := u.Payment; p != nil {
		setString(&setting.Payment.UPIQRImage, p.UPIQRImage)
		setString(&setting.Payment.UPIID, p.UPIID)
		setString(&setting.Payment.BeneficiaryName, p.BeneficiaryName)
		setString(&setting.Payment.Instructions, p.Instructions)
	}
	if u.Shipping == nil || u.Shipping.Shiprocket == nil {
		return
	}
	s := u.Shipping.Shiprocket
	sr := &setting.Shipping.Shiprocket
	if s.Enabled != nil {
		sr.Enabled = *s.Enabled
	}
	setString(&sr.Email, s.Email)
	setString(&sr.ChannelID, s.ChannelID)
	setSecret(&sr.Password, s.Password)
	setSecret(&sr.APIKey, s.APIKey)
	setSecret(&sr.Secret, s.Secret)
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

func setSecret(dst *string, value *string) {
	if value != nil && *value != SecretMask {
		*dst = *value
	}
}
