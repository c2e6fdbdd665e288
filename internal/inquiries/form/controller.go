// Package form drives a single booking inquiry from first keystroke to
// delivery. A Controller owns the record, per-field errors, touched markers
// and the submission lifecycle:
//
//	editing -> submitting -> succeeded | failed
//	failed  -> editing (Dismiss, record kept)
//	succeeded | failed -> editing (Reset, record cleared)
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	inqerrors "bookingdesk/internal/inquiries/errors"
	"bookingdesk/internal/inquiries/resolver"
	"bookingdesk/internal/inquiries/schema"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/model"
)

const DefaultSubmitTimeout = 15 * time.Second

type Validator interface {
	Validate(record model.BookingRecord) model.ValidationResult
	ValidateField(record model.BookingRecord, field string) (string, error)
}

type Transport interface {
	Deliver(ctx context.Context, record model.BookingRecord) error
}

type Option func(*Controller)

func WithID(id string) Option {
	return func(c *Controller) {
		c.id = id
	}
}

func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.submitTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

type Controller struct {
	mu sync.Mutex

	id            string
	validator     Validator
	transport     Transport
	log           *logger.Logger
	submitTimeout time.Duration
	now           func() time.Time

	state    model.FormState
	values   model.BookingRecord
	touched  map[string]bool
	errors   map[string]string
	outcome  *model.SubmissionOutcome
	accepted model.BookingRecord
	lastSeen time.Time
}

func NewController(v Validator, t Transport, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		validator:     v,
		transport:     t,
		log:           log,
		submitTimeout: DefaultSubmitTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = log.With("form_id", c.id)
	c.clear()
	c.lastSeen = c.now()
	return c
}

func (c *Controller) ID() string {
	return c.id
}

// LastActivity reports when the controller was last read or changed.
func (c *Controller) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

func (c *Controller) State() model.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Edit sets one field and re-validates it. Changing a field that others
// derive their options from resets those dependents.
func (c *Controller) Edit(field string, value model.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.now()

	if c.state != model.StateEditing {
		return inqerrors.ErrNotEditing
	}
	def, ok := schema.Lookup(field)
	if !ok {
		return fmt.Errorf("%w: %s", inqerrors.ErrUnknownField, field)
	}
	if value.Kind() == model.KindUnset {
		value = def.ZeroValue()
	}

	previous := c.values[field]
	c.values[field] = value
	c.touched[field] = true

	if !previous.Equal(value) {
		for _, dep := range schema.Dependents(field) {
			depDef, _ := schema.Lookup(dep)
			c.values[dep] = depDef.ZeroValue()
			delete(c.touched, dep)
			delete(c.errors, dep)
		}
	}

	return c.revalidate(field)
}

// Fill sets several fields at once without resetting dependents, which lets a
// caller restore a complete draft whatever the key order.
func (c *Controller) Fill(values model.BookingRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.now()

	if c.state != model.StateEditing {
		return inqerrors.ErrNotEditing
	}
	for field := range values {
		if _, ok := schema.Lookup(field); !ok {
			return fmt.Errorf("%w: %s", inqerrors.ErrUnknownField, field)
		}
	}

	for _, field := range schema.Names() {
		value, ok := values[field]
		if !ok {
			continue
		}
		if value.Kind() == model.KindUnset {
			def, _ := schema.Lookup(field)
			value = def.ZeroValue()
		}
		c.values[field] = value
		c.touched[field] = true
	}
	for field := range values {
		if err := c.revalidate(field); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) revalidate(field string) error {
	msg, err := c.validator.ValidateField(c.values, field)
	if err != nil {
		return err
	}
	if msg == "" {
		delete(c.errors, field)
	} else {
		c.errors[field] = msg
	}
	return nil
}

// Submit validates the whole record and, when it passes, delivers the
// accepted snapshot. An invalid record surfaces every error, marks all fields
// touched and returns ErrFormInvalid without contacting the transport.
func (c *Controller) Submit(ctx context.Context) (model.FormSnapshot, error) {
	c.mu.Lock()
	c.lastSeen = c.now()

	switch c.state {
	case model.StateEditing:
	case model.StateSubmitting:
		c.mu.Unlock()
		return model.FormSnapshot{}, inqerrors.ErrSubmissionInFlight
	default:
		c.mu.Unlock()
		return model.FormSnapshot{}, inqerrors.ErrInvalidTransition
	}

	result := c.validator.Validate(c.values)
	if !result.Valid {
		c.errors = result.Errors
		for _, name := range schema.Names() {
			c.touched[name] = true
		}
		snap := c.snapshot()
		c.mu.Unlock()
		return snap, inqerrors.ErrFormInvalid
	}

	c.errors = make(map[string]string)
	c.accepted = result.Record
	c.beginDelivery()
	record := c.accepted.Clone()
	c.mu.Unlock()

	return c.deliver(ctx, record)
}

// Retry re-sends the snapshot accepted by the last Submit. The record is not
// validated again.
func (c *Controller) Retry(ctx context.Context) (model.FormSnapshot, error) {
	c.mu.Lock()
	c.lastSeen = c.now()

	switch c.state {
	case model.StateFailed:
	case model.StateSubmitting:
		c.mu.Unlock()
		return model.FormSnapshot{}, inqerrors.ErrSubmissionInFlight
	default:
		c.mu.Unlock()
		return model.FormSnapshot{}, inqerrors.ErrInvalidTransition
	}

	c.beginDelivery()
	record := c.accepted.Clone()
	c.mu.Unlock()

	return c.deliver(ctx, record)
}

func (c *Controller) beginDelivery() {
	c.state = model.StateSubmitting
	c.outcome = &model.SubmissionOutcome{Status: model.OutcomePending}
}

// deliver runs until the transport answers or the submit timeout fires.
// Cancelling the caller's context does not abort a delivery in flight.
func (c *Controller) deliver(ctx context.Context, record model.BookingRecord) (model.FormSnapshot, error) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.submitTimeout)
	defer cancel()

	start := c.now()
	err := c.callTransport(dctx, record)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.now()

	if err != nil {
		reason := failureReason(err)
		c.state = model.StateFailed
		c.outcome = &model.SubmissionOutcome{Status: model.OutcomeFailed, Reason: reason}
		c.log.Warn("Inquiry delivery failed",
			"reason", reason,
			"duration", c.now().Sub(start),
		)
		return c.snapshot(), fmt.Errorf("%w: %w", inqerrors.ErrDeliveryFailed, err)
	}

	c.clear()
	c.state = model.StateSucceeded
	c.outcome = &model.SubmissionOutcome{Status: model.OutcomeSucceeded}
	c.log.Info("Inquiry delivered", "duration", c.now().Sub(start))
	return c.snapshot(), nil
}

// callTransport turns a transport panic into a delivery error so the
// controller never stays in submitting.
func (c *Controller) callTransport(ctx context.Context, record model.BookingRecord) (err error) {
	defer func() {
		if p := recover(); p != nil {
			c.log.Error("Transport panicked during delivery", "panic", p)
			err = fmt.Errorf("transport panic: %v", p)
		}
	}()
	return c.transport.Deliver(ctx, record)
}

// Dismiss closes a failure and returns to editing with the record intact.
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.now()

	switch c.state {
	case model.StateFailed:
		c.state = model.StateEditing
		c.outcome = nil
		c.accepted = nil
		return nil
	case model.StateSubmitting:
		return inqerrors.ErrSubmissionInFlight
	default:
		return inqerrors.ErrInvalidTransition
	}
}

// Reset starts a fresh inquiry after a finished submission.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.now()

	switch c.state {
	case model.StateSucceeded, model.StateFailed:
		c.clear()
		return nil
	case model.StateSubmitting:
		return inqerrors.ErrSubmissionInFlight
	default:
		return inqerrors.ErrInvalidTransition
	}
}

func (c *Controller) Snapshot() model.FormSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.now()
	return c.snapshot()
}

func (c *Controller) clear() {
	c.state = model.StateEditing
	c.values = schema.Empty()
	c.touched = make(map[string]bool)
	c.errors = make(map[string]string)
	c.outcome = nil
	c.accepted = nil
}

func (c *Controller) snapshot() model.FormSnapshot {
	touched := make([]string, 0, len(c.touched))
	for _, name := range schema.Names() {
		if c.touched[name] {
			touched = append(touched, name)
		}
	}

	errs := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}

	var outcome *model.SubmissionOutcome
	if c.outcome != nil {
		o := *c.outcome
		outcome = &o
	}

	return model.FormSnapshot{
		ID:                c.id,
		State:             c.state,
		Values:            c.values.Clone(),
		Touched:           touched,
		Errors:            errs,
		Outcome:           outcome,
		AttendanceOptions: resolver.ResolveFor(c.values),
	}
}

type reasoner interface {
	Reason() string
}

func failureReason(err error) string {
	var r reasoner
	if errors.As(err, &r) {
		return r.Reason()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The booking service did not respond in time. Please try again."
	}
	return err.Error()
}
