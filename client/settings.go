package client

import "context"

// SettingsClient wraps the /settings endpoints.
type SettingsClient struct {
	client *Client
}

// NotificationSettings controls which events reach the user.
type NotificationSettings struct {
	EmailEnabled   bool
	PackageUpdates bool
	DealAlerts     bool
	EarningsAlerts bool
}

// PayoutSettings controls how credits are paid out.
type PayoutSettings struct {
	Method        string // check, ach, credit
	AccountHolder string
	AccountLast4  string
}

// Settings is the pharmacy's account configuration.
type Settings struct {
	Notifications   NotificationSettings
	Payout          PayoutSettings
	PharmacyName    string
	PharmacyAddress string
	PharmacyPhone   string
	DEANumber       string
}

type wireSettings struct {
	Notifications struct {
		EmailEnabled   bool `json:"email_enabled"`
		PackageUpdates bool `json:"package_updates"`
		DealAlerts     bool `json:"deal_alerts"`
		EarningsAlerts bool `json:"earnings_alerts"`
	} `json:"notifications"`
	Payout struct {
		Method        string `json:"method"`
		AccountHolder string `json:"account_holder"`
		AccountLast4  string `json:"account_last4"`
	} `json:"payout"`
	PharmacyName    string `json:"pharmacy_name"`
	PharmacyAddress string `json:"pharmacy_address"`
	PharmacyPhone   string `json:"pharmacy_phone"`
	DEANumber       string `json:"dea_number"`
}

func (w wireSettings) toSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			EmailEnabled:   w.Notifications.EmailEnabled,
			PackageUpdates: w.Notifications.PackageUpdates,
			DealAlerts:     w.Notifications.DealAlerts,
			EarningsAlerts: w.Notifications.EarningsAlerts,
		},
		Payout: PayoutSettings{
			Method:        orDefault(w.Payout.Method, "check"),
			AccountHolder: w.Payout.AccountHolder,
			AccountLast4:  w.Payout.AccountLast4,
		},
		PharmacyName:    w.PharmacyName,
		PharmacyAddress: w.PharmacyAddress,
		PharmacyPhone:   w.PharmacyPhone,
		DEANumber:       w.DEANumber,
	}
}

// SettingsPatch updates a subset of the settings. Nil fields are left
// untouched server-side.
type SettingsPatch struct {
	Notifications *struct {
		EmailEnabled   *bool `json:"email_enabled,omitempty"`
		PackageUpdates *bool `json:"package_updates,omitempty"`
		DealAlerts     *bool `json:"deal_alerts,omitempty"`
		EarningsAlerts *bool `json:"earnings_alerts,omitempty"`
	} `json:"notifications,omitempty"`
	PayoutMethod    *string `json:"payout_method,omitempty"`
	PharmacyName    *string `json:"pharmacy_name,omitempty"`
	PharmacyAddress *string `json:"pharmacy_address,omitempty"`
	PharmacyPhone   *string `json:"pharmacy_phone,omitempty"`
}

// Get returns the account settings.
func (s *SettingsClient) Get(ctx context.Context) (*Settings, error) {
	env, err := s.client.get(ctx, "/settings", nil)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireSettings](env, "settings.get", "Failed to load settings")
	if err != nil {
		return nil, err
	}
	settings := w.toSettings()
	return &settings, nil
}

// Update patches the account settings and returns the updated record.
func (s *SettingsClient) Update(ctx context.Context, patch SettingsPatch) (*Settings, error) {
	env, err := s.client.patch(ctx, "/settings", patch)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireSettings](env, "settings.update", "Failed to update settings")
	if err != nil {
		return nil, err
	}
	settings := w.toSettings()
	return &settings, nil
}
