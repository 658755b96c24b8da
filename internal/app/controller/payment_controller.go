package controller

import (
	"context"
	"sync"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/debounce"
	"github.com/ikkim/storefront/internal/ui"
	"github.com/ikkim/storefront/pkg/util"
)

// PaymentController is the add-payment-method form. Card numbers are looked
// up once enough digits are typed, after the input settles.
type PaymentController struct {
	paymentService service.PaymentService
	notices        *ui.NoticeBoard
	nav            ui.Navigator
	lookup         *debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	form       model.CardForm
	submitting bool
	onChange   func(model.CardForm)
}

func NewPaymentController(
	paymentService service.PaymentService,
	notices *ui.NoticeBoard,
	nav ui.Navigator,
	lookupDelay time.Duration,
) *PaymentController {
	ctx, cancel := context.WithCancel(context.Background())
	return &PaymentController{
		paymentService: paymentService,
		notices:        notices,
		nav:            nav,
		lookup:         debounce.New(lookupDelay),
		ctx:            ctx,
		cancel:         cancel,
		form:           paymentService.SelectProvider(model.ProviderCreditCard),
	}
}

// OnChange registers fn to receive every form update
func (ctrl *PaymentController) OnChange(fn func(model.CardForm)) {
	ctrl.mu.Lock()
	ctrl.onChange = fn
	ctrl.mu.Unlock()
}

func (ctrl *PaymentController) Form() model.CardForm {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.form
}

// SelectProvider switches between card and wallet and clears the form
func (ctrl *PaymentController) SelectProvider(provider model.PaymentProvider) model.CardForm {
	ctrl.lookup.Cancel()
	return ctrl.set(ctrl.paymentService.SelectProvider(provider))
}

// Input applies edited field values. A changed card number with a complete
// BIN schedules a lookup.
func (ctrl *PaymentController) Input(next model.CardForm) model.CardForm {
	ctrl.mu.Lock()
	prev := ctrl.form
	next.Provider = prev.Provider
	ctrl.mu.Unlock()

	form := ctrl.set(ctrl.paymentService.Format(prev, next))

	digits := util.CardDigits(form.CardNumber)
	if digits == util.CardDigits(prev.CardNumber) {
		return form
	}
	if !util.HasCardBIN(digits) {
		ctrl.lookup.Cancel()
		return form
	}
	ctrl.lookup.Trigger(func() {
		ctrl.LookupCard(ctrl.ctx)
	})
	return form
}

// LookupCard validates the current card number with the issuer lookup. A
// result for a number that has since changed is dropped.
func (ctrl *PaymentController) LookupCard(ctx context.Context) model.CardForm {
	form := ctrl.Form()
	looked := ctrl.paymentService.LookupCard(ctx, form)

	ctrl.mu.Lock()
	if util.CardDigits(ctrl.form.CardNumber) != util.CardDigits(form.CardNumber) {
		current := ctrl.form
		ctrl.mu.Unlock()
		return current
	}
	ctrl.form.CardType = looked.CardType
	ctrl.form.ValidationMessage = looked.ValidationMessage
	ctrl.form.ValidationOK = looked.ValidationOK
	if looked.CardholderName != "" {
		ctrl.form.CardholderName = looked.CardholderName
	}
	updated := ctrl.form
	fn := ctrl.onChange
	ctrl.mu.Unlock()

	if fn != nil {
		fn(updated)
	}
	return updated
}

// Submit saves the card, or starts a wallet payment and opens its page
func (ctrl *PaymentController) Submit(ctx context.Context) error {
	ctrl.mu.Lock()
	if ctrl.submitting {
		ctrl.mu.Unlock()
		return nil
	}
	ctrl.submitting = true
	form := ctrl.form
	ctrl.mu.Unlock()

	defer func() {
		ctrl.mu.Lock()
		ctrl.submitting = false
		ctrl.mu.Unlock()
	}()

	if form.Provider == model.ProviderZaloPay {
		url, err := ctrl.paymentService.StartWallet(ctx, form)
		if err != nil {
			ctrl.notices.Error(err, service.MsgWalletFailed)
			return err
		}
		ctrl.nav.Navigate(url)
		return nil
	}

	msg, err := ctrl.paymentService.AddCard(ctx, form)
	if err != nil {
		ctrl.notices.Error(err, service.MsgPaymentFailed)
		return err
	}
	ctrl.notices.Success(msg)
	ctrl.SelectProvider(form.Provider)
	return nil
}

func (ctrl *PaymentController) set(form model.CardForm) model.CardForm {
	ctrl.mu.Lock()
	ctrl.form = form
	fn := ctrl.onChange
	ctrl.mu.Unlock()

	if fn != nil {
		fn(form)
	}
	return form
}

// Close drops a pending lookup
func (ctrl *PaymentController) Close() {
	ctrl.lookup.Cancel()
	ctrl.cancel()
}
