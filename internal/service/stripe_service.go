package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	billingsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	customerpkg "github.com/stripe/stripe-go/v82/customer"
	subscriptionpkg "github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// billingPeriod is the entitlement window granted per successful payment.
const billingPeriod = 30 * 24 * time.Hour

// StripeService manages Stripe integration: checkout, portal and webhook
// processing. Webhook events are applied as idempotent upserts to the usage
// record since Stripe delivers at least once.
type StripeService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	subSvc   SubscriptionService
	logger   zerolog.Logger
}

// NewStripeService initializes the Stripe key and returns the service with a
// scoped logger.
func NewStripeService(cfg *config.Config, userRepo repository.UserRepository, subSvc SubscriptionService, logger zerolog.Logger) *StripeService {
	stripe.Key = cfg.StripeSecretKey
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{cfg: cfg, userRepo: userRepo, subSvc: subSvc, logger: lg}
}

// tierForPrice maps a Stripe price ID to the tier name and monthly token ceiling.
func (s *StripeService) tierForPrice(priceID string) (string, int64, error) {
	switch priceID {
	case s.cfg.StripePriceStarter:
		return "starter", s.cfg.StarterTokenLimit, nil
	case s.cfg.StripePricePro:
		return "pro", s.cfg.ProTokenLimit, nil
	default:
		return "", 0, fmt.Errorf("unknown price id: %s", priceID)
	}
}

// getUserIDFromEvent resolves the user from webhook metadata or, failing
// that, from the Stripe customer ID.
func (s *StripeService) getUserIDFromEvent(ctx context.Context, metadata map[string]string, customerID string) (string, error) {
	if userID, ok := metadata["user_id"]; ok && userID != "" {
		return userID, nil
	}
	if customerID == "" {
		return "", errors.New("cannot determine user: missing metadata and customer id")
	}
	s.logger.Warn().Str("stripe_customer_id", customerID).Msg("Missing user_id metadata; looking up user by customer ID")
	u, err := s.userRepo.GetUserByStripeCustomerID(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("failed to lookup user by Stripe customer ID: %w", err)
	}
	if u == nil {
		return "", fmt.Errorf("no user found for customer ID: %s", customerID)
	}
	return u.UserID, nil
}

// GetOrCreateCustomer ensures a Stripe Customer exists for a user.
func (s *StripeService) GetOrCreateCustomer(ctx context.Context, user *model.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}
	s.logger.Warn().Str("user_id", user.UserID).Msg("No Stripe customer ID found, creating customer as fallback")
	return s.CreateCustomer(ctx, user)
}

// CreateCustomer creates a new Stripe customer for a user.
func (s *StripeService) CreateCustomer(ctx context.Context, user *model.User) (string, error) {
	params := &stripe.CustomerParams{
		Email:    stripe.String(user.Email),
		Name:     stripe.String(user.Name),
		Metadata: map[string]string{"user_id": user.UserID},
	}
	cust, err := customerpkg.New(params)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.UserID).Msg("Failed to create Stripe customer")
		return "", fmt.Errorf("create stripe customer: %w", err)
	}
	if err := s.userRepo.UpdateStripeCustomerID(ctx, user.UserID, cust.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.UserID).Msg("Failed to store stripe customer id")
		return "", fmt.Errorf("store stripe customer id: %w", err)
	}
	return cust.ID, nil
}

// CreateCheckoutSession creates a Stripe Checkout session for a plan.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, userID, plan string) (string, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch user for checkout session")
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return "", fmt.Errorf("user not found: %s", userID)
	}
	customerID, err := s.GetOrCreateCustomer(ctx, user)
	if err != nil {
		return "", err
	}
	var priceID string
	switch plan {
	case "starter":
		priceID = s.cfg.StripePriceStarter
	case "pro":
		priceID = s.cfg.StripePricePro
	default:
		return "", fmt.Errorf("invalid plan: %s", plan)
	}
	sessParams := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          []*stripe.CheckoutSessionLineItemParams{{Price: stripe.String(priceID), Quantity: stripe.Int64(1)}},
		Mode:               stripe.String(stripe.CheckoutSessionModeSubscription),
		SuccessURL:         stripe.String(s.cfg.StripePortalReturnURL + "?status=success"),
		CancelURL:          stripe.String(s.cfg.StripePortalReturnURL + "?status=cancel"),
		Metadata:           map[string]string{"user_id": userID},
	}
	sess, err := checkoutsession.New(sessParams)
	if err != nil {
		s.logger.Error().Err(err).Str("plan", plan).Msg("Failed to create Stripe checkout session")
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// CreatePortalSession creates a Stripe Customer Portal session.
func (s *StripeService) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch user for portal session")
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if user == nil || user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		return "", fmt.Errorf("no stripe customer for user: %s", userID)
	}
	params := &stripe.BillingPortalSessionParams{Customer: stripe.String(*user.StripeCustomerID), ReturnURL: stripe.String(s.cfg.StripePortalReturnURL)}
	sess, err := billingsession.New(params)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create Stripe billing portal session")
		return "", fmt.Errorf("create billing portal session: %w", err)
	}
	return sess.URL, nil
}

// subscriptionPeriod extracts the billing period from a subscription's first
// item, falling back to a fixed 30-day window from now.
func (s *StripeService) subscriptionPeriod(sub *stripe.Subscription) (time.Time, time.Time) {
	if sub != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.CurrentPeriodStart > 0 && item.CurrentPeriodEnd > 0 {
			return time.Unix(item.CurrentPeriodStart, 0), time.Unix(item.CurrentPeriodEnd, 0)
		}
	}
	now := time.Now()
	return now, now.Add(billingPeriod)
}

// applySubscription resolves tier and period from a Stripe subscription and
// upserts the user's usage record.
func (s *StripeService) applySubscription(ctx context.Context, userID, status string, sub *stripe.Subscription) error {
	if sub == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return errors.New("subscription has no priced items")
	}
	priceID := sub.Items.Data[0].Price.ID
	tier, tokensLimit, err := s.tierForPrice(priceID)
	if err != nil {
		return err
	}
	start, end := s.subscriptionPeriod(sub)
	subID := sub.ID
	s.logger.Info().Str("user_id", userID).Str("tier", tier).Str("status", status).Str("subscription_id", subID).Msg("Applying subscription to usage record")
	return s.subSvc.UpsertFromBillingEvent(ctx, userID, tier, tokensLimit, start, end, status, &subID)
}

// HandleWebhook processes Stripe webhook events.
func (s *StripeService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}
	s.logger.Info().Str("event_type", string(event.Type)).Msg("Stripe webhook received")

	ctx := r.Context()
	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			s.logger.Error().Err(err).Msg("Invalid checkout.session data")
			http.Error(w, "invalid checkout.session data", http.StatusBadRequest)
			return
		}
		userID := cs.Metadata["user_id"]
		if userID == "" {
			s.logger.Error().Msg("Missing user_id in checkout session metadata")
			http.Error(w, "missing user_id in metadata", http.StatusBadRequest)
			return
		}
		if cs.Subscription == nil {
			s.logger.Info().Str("session_id", cs.ID).Msg("Checkout session has no subscription, skipping")
			w.WriteHeader(http.StatusOK)
			return
		}
		sub, err := subscriptionpkg.Get(cs.Subscription.ID, nil)
		if err != nil {
			s.logger.Error().Err(err).Str("subscription_id", cs.Subscription.ID).Msg("Failed to fetch subscription details")
			http.Error(w, "failed to fetch subscription details", http.StatusInternalServerError)
			return
		}
		if err := s.applySubscription(ctx, userID, model.StatusActive, sub); err != nil {
			s.logger.Error().Err(err).Msg("Failed to save entitlement on checkout.session.completed")
			http.Error(w, "failed to save entitlement", http.StatusInternalServerError)
			return
		}
	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			s.logger.Error().Err(err).Msg("Invalid invoice.payment_succeeded payload")
			http.Error(w, "invalid invoice data", http.StatusBadRequest)
			return
		}
		s.handleInvoice(ctx, w, &invoice, model.StatusActive)
		return
	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			s.logger.Error().Err(err).Msg("Invalid invoice.payment_failed payload")
			http.Error(w, "invalid invoice data", http.StatusBadRequest)
			return
		}
		s.handleInvoice(ctx, w, &invoice, model.StatusPastDue)
		return
	case "customer.subscription.updated":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			s.logger.Error().Err(err).Msg("Invalid customer.subscription.updated payload")
			http.Error(w, "invalid subscription data", http.StatusBadRequest)
			return
		}
		status := string(ss.Status)
		if ss.CancelAtPeriodEnd || ss.Status == stripe.SubscriptionStatusCanceled {
			status = model.StatusCancelled
		}
		userID, err := s.getUserIDFromEvent(ctx, ss.Metadata, customerIDOf(ss.Customer))
		if err != nil {
			s.logger.Error().Err(err).Str("subscription_id", ss.ID).Msg("Failed to determine user ID from subscription")
			http.Error(w, "failed to identify user", http.StatusInternalServerError)
			return
		}
		if err := s.applySubscription(ctx, userID, status, &ss); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update entitlement on customer.subscription.updated")
			http.Error(w, "failed to update entitlement", http.StatusInternalServerError)
			return
		}
	case "customer.subscription.deleted":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			s.logger.Error().Err(err).Msg("Invalid customer.subscription.deleted payload")
			http.Error(w, "invalid subscription data", http.StatusBadRequest)
			return
		}
		userID, err := s.getUserIDFromEvent(ctx, ss.Metadata, customerIDOf(ss.Customer))
		if err != nil {
			s.logger.Error().Err(err).Str("subscription_id", ss.ID).Msg("Failed to determine user ID from subscription")
			http.Error(w, "failed to identify user", http.StatusInternalServerError)
			return
		}
		if err := s.subSvc.MarkStatus(ctx, userID, model.StatusCancelled); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to cancel entitlement on customer.subscription.deleted")
			http.Error(w, "failed to cancel entitlement", http.StatusInternalServerError)
			return
		}
	default:
		s.logger.Warn().Str("event_type", string(event.Type)).Msg("Unhandled Stripe webhook event")
	}
	w.WriteHeader(http.StatusOK)
}

// handleInvoice applies an invoice event by resolving its subscription and
// upserting the usage record with the given status.
func (s *StripeService) handleInvoice(ctx context.Context, w http.ResponseWriter, invoice *stripe.Invoice, status string) {
	userID, err := s.getUserIDFromEvent(ctx, invoice.Metadata, customerIDOf(invoice.Customer))
	if err != nil {
		s.logger.Error().Err(err).Str("invoice_id", invoice.ID).Msg("Failed to determine user ID from invoice")
		http.Error(w, "failed to identify user", http.StatusInternalServerError)
		return
	}

	var subID string
	if invoice.Lines != nil {
		for _, line := range invoice.Lines.Data {
			if line.Subscription != nil && line.Subscription.ID != "" {
				subID = line.Subscription.ID
				break
			}
		}
	}
	// One-time invoices carry no subscription and do not touch entitlements.
	if subID == "" {
		s.logger.Info().Str("invoice_id", invoice.ID).Msg("Invoice has no subscription, skipping entitlement update")
		w.WriteHeader(http.StatusOK)
		return
	}

	sub, err := subscriptionpkg.Get(subID, nil)
	if err != nil {
		s.logger.Error().Err(err).Str("subscription_id", subID).Msg("Failed to fetch subscription for invoice")
		http.Error(w, "failed to fetch subscription details", http.StatusInternalServerError)
		return
	}
	if err := s.applySubscription(ctx, userID, status, sub); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to apply invoice to entitlement")
		http.Error(w, "failed to update entitlement", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func customerIDOf(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}
