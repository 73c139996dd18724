package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zathu/zathu/internal/domain"
)

type CreateCurrencyInput struct {
	Body struct {
		Code         string `json:"code" minLength:"3" maxLength:"3" pattern:"^[A-Z]{3}$" doc:"ISO 4217 currency code"`
		Symbol       string `json:"symbol,omitempty" maxLength:"8" doc:"Display symbol"`
		ExchangeRate string `json:"exchange_rate" minLength:"1" doc:"Rate against the default currency, as a decimal string"`
		IsDefault    bool   `json:"is_default,omitempty" doc:"Make this the default currency"`
	}
}

type CreateCurrencyOutput struct {
	Body *domain.Currency
}

type ListCurrenciesInput struct{}

type ListCurrenciesOutput struct {
	Body []*domain.Currency
}

type SetDefaultCurrencyInput struct {
	Code string `path:"code" pattern:"^[A-Z]{3}$" doc:"ISO 4217 currency code"`
}

type SetDefaultCurrencyOutput struct {
	Body *domain.Currency
}

func RegisterCurrencyRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-currency",
		Method:      http.MethodPost,
		Path:        "/currencies",
		Summary:     "Add a currency to the current organization",
		Tags:        []string{"Currencies"},
	}, func(ctx context.Context, input *CreateCurrencyInput) (*CreateCurrencyOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		rate, err := decimal.NewFromString(input.Body.ExchangeRate)
		if err != nil {
			return nil, huma.Error400BadRequest("exchange_rate is not a valid decimal")
		}
		if !rate.IsPositive() {
			return nil, huma.Error400BadRequest("exchange_rate must be positive")
		}

		now := time.Now()
		c := &domain.Currency{
			ID:           uuid.New(),
			Code:         input.Body.Code,
			Symbol:       input.Body.Symbol,
			ExchangeRate: rate,
			IsDefault:    input.Body.IsDefault,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := store.Currencies().Create(ctx, scope, c); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("currency already configured")
			}
			return nil, huma.Error500InternalServerError("failed to create currency", err)
		}

		if input.Body.IsDefault {
			if err := store.Currencies().SetDefault(ctx, scope, c.Code); err != nil {
				return nil, huma.Error500InternalServerError("failed to set default currency", err)
			}
		}

		return &CreateCurrencyOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-currencies",
		Method:      http.MethodGet,
		Path:        "/currencies",
		Summary:     "List currencies in the current organization",
		Tags:        []string{"Currencies"},
	}, func(ctx context.Context, _ *ListCurrenciesInput) (*ListCurrenciesOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		currencies, err := store.Currencies().List(ctx, scope)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list currencies", err)
		}

		return &ListCurrenciesOutput{Body: currencies}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-default-currency",
		Method:      http.MethodPut,
		Path:        "/currencies/{code}/default",
		Summary:     "Set the organization's default currency",
		Tags:        []string{"Currencies"},
	}, func(ctx context.Context, input *SetDefaultCurrencyInput) (*SetDefaultCurrencyOutput, error) {
		scope, err := scopeFrom(ctx)
		if err != nil {
			return nil, err
		}

		if err := store.Currencies().SetDefault(ctx, scope, input.Code); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("currency not configured")
			}
			return nil, huma.Error500InternalServerError("failed to set default currency", err)
		}

		c, err := store.Currencies().GetByCode(ctx, scope, input.Code)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get currency", err)
		}

		return &SetDefaultCurrencyOutput{Body: c}, nil
	})
}
