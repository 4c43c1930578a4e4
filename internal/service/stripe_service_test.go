package service

import (
	"context"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/model"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
)

// recordedUpsert captures one UpsertFromBillingEvent call.
type recordedUpsert struct {
	userID      string
	tier        string
	tokensLimit int64
	periodStart time.Time
	periodEnd   time.Time
	status      string
	subID       *string
}

type fakeBillingSink struct {
	upserts  []recordedUpsert
	statuses map[string]string
}

func (f *fakeBillingSink) CheckEntitlement(ctx context.Context, userID string) (*model.UsageRecord, error) {
	return nil, nil
}

func (f *fakeBillingSink) GetUsageRecord(ctx context.Context, userID string) (*model.UsageRecord, error) {
	return nil, nil
}

func (f *fakeBillingSink) UpsertFromBillingEvent(ctx context.Context, userID, tier string, tokensLimit int64, periodStart, periodEnd time.Time, status string, stripeSubscriptionID *string) error {
	f.upserts = append(f.upserts, recordedUpsert{
		userID:      userID,
		tier:        tier,
		tokensLimit: tokensLimit,
		periodStart: periodStart,
		periodEnd:   periodEnd,
		status:      status,
		subID:       stripeSubscriptionID,
	})
	return nil
}

func (f *fakeBillingSink) MarkStatus(ctx context.Context, userID, status string) error {
	if f.statuses == nil {
		f.statuses = make(map[string]string)
	}
	f.statuses[userID] = status
	return nil
}

func stripeTestConfig() *config.Config {
	return &config.Config{
		StripeSecretKey:    "sk_test_key",
		StripePriceStarter: "price_starter",
		StripePricePro:     "price_pro",
		StarterTokenLimit:  100000,
		ProTokenLimit:      1000000,
	}
}

func newTestStripeService(sink *fakeBillingSink) *StripeService {
	return NewStripeService(stripeTestConfig(), nil, sink, zerolog.Nop())
}

func TestTierForPrice(t *testing.T) {
	svc := newTestStripeService(&fakeBillingSink{})

	tier, limit, err := svc.tierForPrice("price_starter")
	if err != nil || tier != "starter" || limit != 100000 {
		t.Fatalf("unexpected starter mapping: %s %d %v", tier, limit, err)
	}
	tier, limit, err = svc.tierForPrice("price_pro")
	if err != nil || tier != "pro" || limit != 1000000 {
		t.Fatalf("unexpected pro mapping: %s %d %v", tier, limit, err)
	}
	if _, _, err := svc.tierForPrice("price_unknown"); err == nil {
		t.Fatal("expected an error for an unknown price id")
	}
}

func TestSubscriptionPeriodFromItems(t *testing.T) {
	svc := newTestStripeService(&fakeBillingSink{})

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	sub := &stripe.Subscription{
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{{
				CurrentPeriodStart: start.Unix(),
				CurrentPeriodEnd:   end.Unix(),
			}},
		},
	}

	gotStart, gotEnd := svc.subscriptionPeriod(sub)
	if !gotStart.Equal(start) || !gotEnd.Equal(end) {
		t.Fatalf("expected the item's period, got %v .. %v", gotStart, gotEnd)
	}
}

func TestSubscriptionPeriodFallback(t *testing.T) {
	svc := newTestStripeService(&fakeBillingSink{})

	gotStart, gotEnd := svc.subscriptionPeriod(nil)
	if got := gotEnd.Sub(gotStart); got != billingPeriod {
		t.Fatalf("expected a %v fallback window, got %v", billingPeriod, got)
	}
}

func TestApplySubscriptionUpsertsRecord(t *testing.T) {
	sink := &fakeBillingSink{}
	svc := newTestStripeService(sink)

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	sub := &stripe.Subscription{
		ID: "sub_123",
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{{
				Price:              &stripe.Price{ID: "price_starter"},
				CurrentPeriodStart: start.Unix(),
				CurrentPeriodEnd:   end.Unix(),
			}},
		},
	}

	if err := svc.applySubscription(context.Background(), "u1", model.StatusActive, sub); err != nil {
		t.Fatalf("applySubscription returned error: %v", err)
	}
	if len(sink.upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(sink.upserts))
	}
	got := sink.upserts[0]
	if got.userID != "u1" || got.tier != "starter" || got.tokensLimit != 100000 || got.status != model.StatusActive {
		t.Fatalf("unexpected upsert: %+v", got)
	}
	if !got.periodStart.Equal(start) || !got.periodEnd.Equal(end) {
		t.Errorf("unexpected period: %v .. %v", got.periodStart, got.periodEnd)
	}
	if got.subID == nil || *got.subID != "sub_123" {
		t.Errorf("unexpected subscription id: %v", got.subID)
	}
}

func TestApplySubscriptionRejectsUnpricedItems(t *testing.T) {
	sink := &fakeBillingSink{}
	svc := newTestStripeService(sink)

	sub := &stripe.Subscription{ID: "sub_123", Items: &stripe.SubscriptionItemList{}}
	if err := svc.applySubscription(context.Background(), "u1", model.StatusActive, sub); err == nil {
		t.Fatal("expected an error for a subscription without priced items")
	}
	if len(sink.upserts) != 0 {
		t.Fatalf("expected no upsert, got %d", len(sink.upserts))
	}
}
