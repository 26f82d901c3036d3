package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/repository"
	"github.com/tallyhq/networth-backend/internal/secrets"
)

// Settings store keys.
const (
	settingDisplayCurrency    = "display_currency"
	settingFinnhubAPIKey      = "finnhub_api_key"
	settingAlphaVantageAPIKey = "alphavantage_api_key"
)

// apiKeyReceiver is the part of a provider client that accepts a new key at
// runtime.
type apiKeyReceiver interface {
	SetAPIKey(key string)
}

// cacheInvalidator drops cached values when the display currency changes.
type cacheInvalidator interface {
	InvalidateRates()
}

// SettingsService manages the persisted user settings: display currency and
// provider API keys. Keys are encrypted at rest via the codec and pushed
// into the live provider clients on every update. Environment variables act
// as bootstrap values until the store has been written.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	codec        *secrets.Codec

	envFinnhubKey      string
	envAlphaVantageKey string

	finnhub      apiKeyReceiver
	alphaVantage apiKeyReceiver
	converter    cacheInvalidator
}

// NewSettingsService creates a SettingsService. The env keys are the
// bootstrap values from configuration; finnhub, alphaVantage and converter
// receive live updates and may be nil in tests.
func NewSettingsService(
	settingsRepo *repository.SettingsRepository,
	codec *secrets.Codec,
	envFinnhubKey, envAlphaVantageKey string,
	finnhub, alphaVantage apiKeyReceiver,
	converter cacheInvalidator,
) *SettingsService {
	return &SettingsService{
		settingsRepo:       settingsRepo,
		codec:              codec,
		envFinnhubKey:      envFinnhubKey,
		envAlphaVantageKey: envAlphaVantageKey,
		finnhub:            finnhub,
		alphaVantage:       alphaVantage,
		converter:          converter,
	}
}

// Get returns the current settings, with API keys decrypted. Unset values
// fall back to the environment bootstrap keys and the default currency.
func (s *SettingsService) Get() (model.Settings, error) {
	settings := model.Settings{
		DisplayCurrency:    model.DefaultDisplayCurrency,
		FinnhubAPIKey:      s.envFinnhubKey,
		AlphaVantageAPIKey: s.envAlphaVantageKey,
	}

	currency, err := s.lookup(settingDisplayCurrency)
	if err != nil {
		return model.Settings{}, err
	}
	if currency != "" {
		settings.DisplayCurrency = currency
	}

	finnhubKey, err := s.lookup(settingFinnhubAPIKey)
	if err != nil {
		return model.Settings{}, err
	}
	if finnhubKey != "" {
		settings.FinnhubAPIKey = s.codec.Decrypt(finnhubKey)
	}

	alphaKey, err := s.lookup(settingAlphaVantageAPIKey)
	if err != nil {
		return model.Settings{}, err
	}
	if alphaKey != "" {
		settings.AlphaVantageAPIKey = s.codec.Decrypt(alphaKey)
	}

	return settings, nil
}

// DisplayCurrency returns the configured display currency, defaulting to
// USD.
func (s *SettingsService) DisplayCurrency() (string, error) {
	currency, err := s.lookup(settingDisplayCurrency)
	if err != nil {
		return "", err
	}
	if currency == "" {
		return model.DefaultDisplayCurrency, nil
	}
	return currency, nil
}

// Update persists new settings. API keys are encrypted before storage and
// pushed into the live provider clients; a display currency change drops
// all cached exchange rates.
func (s *SettingsService) Update(ctx context.Context, settings model.Settings) error {
	currency := strings.ToUpper(strings.TrimSpace(settings.DisplayCurrency))
	if currency == "" {
		return fmt.Errorf("%w: currency", apperrors.ErrMissingRequiredField)
	}
	if len(currency) != 3 {
		return fmt.Errorf("invalid currency code %q", settings.DisplayCurrency)
	}

	previous, err := s.DisplayCurrency()
	if err != nil {
		return err
	}

	if err := s.settingsRepo.Set(ctx, settingDisplayCurrency, currency); err != nil {
		return err
	}
	if err := s.storeAPIKey(ctx, settingFinnhubAPIKey, settings.FinnhubAPIKey, s.finnhub); err != nil {
		return err
	}
	if err := s.storeAPIKey(ctx, settingAlphaVantageAPIKey, settings.AlphaVantageAPIKey, s.alphaVantage); err != nil {
		return err
	}

	if currency != previous && s.converter != nil {
		s.converter.InvalidateRates()
	}
	return nil
}

// ApplyToProviders pushes the stored API keys into the live provider
// clients. Called once at startup so the clients start with the stored keys
// rather than the bootstrap environment values.
func (s *SettingsService) ApplyToProviders() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if s.finnhub != nil {
		s.finnhub.SetAPIKey(settings.FinnhubAPIKey)
	}
	if s.alphaVantage != nil {
		s.alphaVantage.SetAPIKey(settings.AlphaVantageAPIKey)
	}
	return nil
}

func (s *SettingsService) storeAPIKey(ctx context.Context, key, value string, client apiKeyReceiver) error {
	encrypted, err := s.codec.Encrypt(value)
	if err != nil {
		return err
	}
	if err := s.settingsRepo.Set(ctx, key, encrypted); err != nil {
		return err
	}
	if client != nil {
		client.SetAPIKey(value)
	}
	return nil
}

func (s *SettingsService) lookup(key string) (string, error) {
	value, err := s.settingsRepo.Get(key)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
