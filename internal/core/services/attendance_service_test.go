package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/class_credits_crm/internal/core/ports/services"
	"github.com/SscSPs/class_credits_crm/internal/core/services"
	"github.com/SscSPs/class_credits_crm/internal/dto"
	"github.com/SscSPs/class_credits_crm/internal/platform/metrics"
	"github.com/SscSPs/class_credits_crm/internal/repositories/database/memory"
	"github.com/SscSPs/class_credits_crm/internal/utils/accounting"
)

const operator = "operator-1"

type AttendanceServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	store      *memory.Store
	now        time.Time
	metrics    *metrics.Metrics
	clients    portssvc.ClientSvcFacade
	attendance portssvc.AttendanceSvcFacade
	reconcile  portssvc.ReconciliationSvc
	phones     int
}

func (s *AttendanceServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.metrics = metrics.New()
	s.phones = 0
	s.build(services.CancellationPolicy{})
}

func (s *AttendanceServiceTestSuite) build(policy services.CancellationPolicy) {
	repos := portsrepo.NewRepositoryProvider(s.store)
	opts := []services.Option{
		services.WithMetrics(s.metrics),
		services.WithClock(func() time.Time { return s.now }),
		services.WithCancellationPolicy(policy),
		services.WithReconcileWorkers(2),
	}
	s.clients = services.NewClientService(repos, opts...)
	s.attendance = services.NewAttendanceService(repos, opts...)
	s.reconcile = services.NewReconciliationService(repos, opts...)
}

func TestAttendanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceServiceTestSuite))
}

// --- helpers ---

func (s *AttendanceServiceTestSuite) newClient(children ...string) *domain.Client {
	s.phones++
	req := dto.CreateClientRequest{PhoneNumber: fmt.Sprintf("+7%010d", s.phones)}
	for _, id := range children {
		req.Children = append(req.Children, dto.ChildInput{ChildID: id, Name: "Kid " + id})
	}
	c, err := s.clients.CreateClient(s.ctx, req, operator)
	s.Require().NoError(err)
	return c
}

func (s *AttendanceServiceTestSuite) buy(clientID string, count int64) {
	_, _, err := s.clients.PurchaseCredits(s.ctx, clientID, dto.PurchaseCreditsRequest{Count: count, AmountPaid: count * 1000}, operator)
	s.Require().NoError(err)
}

func (s *AttendanceServiceTestSuite) newSession(date, at string) *domain.ClassSession {
	cs, err := s.attendance.CreateClassSession(s.ctx, dto.CreateClassSessionRequest{Date: date, Time: at}, operator)
	s.Require().NoError(err)
	return cs
}

func (s *AttendanceServiceTestSuite) register(sessionID, clientID string, childIDs ...string) {
	for _, childID := range childIDs {
		_, err := s.attendance.RegisterChild(s.ctx, sessionID, dto.RegisterChildRequest{ClientID: clientID, ChildID: childID}, operator)
		s.Require().NoError(err)
	}
}

func (s *AttendanceServiceTestSuite) credits(clientID string) int64 {
	c, err := s.clients.GetClient(s.ctx, clientID)
	s.Require().NoError(err)
	return c.CreditsRemaining
}

func (s *AttendanceServiceTestSuite) ledger(clientID string) []domain.Transaction {
	txns, err := s.store.ListTransactionsByClientID(s.ctx, clientID)
	s.Require().NoError(err)
	return txns
}

func (s *AttendanceServiceTestSuite) debits(clientID string) int {
	n := 0
	for _, t := range s.ledger(clientID) {
		if t.Kind == domain.Debit {
			n++
		}
	}
	return n
}

func (s *AttendanceServiceTestSuite) assertConsistent(clientID string) {
	s.Equal(accounting.Recompute(s.ledger(clientID)), s.credits(clientID), "counter must equal ledger fold")
}

// --- registration ---

func (s *AttendanceServiceTestSuite) TestRegisterChild_UsesStoredName() {
	client := s.newClient("kid-a")
	cs := s.newSession("2025-03-01", "10:00")

	updated, err := s.attendance.RegisterChild(s.ctx, cs.ClassSessionID, dto.RegisterChildRequest{ClientID: client.ClientID, ChildID: "kid-a"}, operator)
	s.Require().NoError(err)
	s.Require().Len(updated.Registrations, 1)
	s.Equal("Kid kid-a", updated.Registrations[0].ChildName)
	s.Equal(domain.StatusRegistered, updated.Registrations[0].Status())
	s.Equal(int64(2), updated.Version)
	s.Empty(s.ledger(client.ClientID), "registration has no ledger effect")
}

func (s *AttendanceServiceTestSuite) TestRegisterChild_Errors() {
	client := s.newClient("kid-a")
	cs := s.newSession("2025-03-01", "10:00")
	s.register(cs.ClassSessionID, client.ClientID, "kid-a")

	_, err := s.attendance.RegisterChild(s.ctx, cs.ClassSessionID, dto.RegisterChildRequest{ClientID: client.ClientID, ChildID: "kid-a"}, operator)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.attendance.RegisterChild(s.ctx, "missing", dto.RegisterChildRequest{ClientID: client.ClientID, ChildID: "kid-a"}, operator)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.attendance.RegisterChild(s.ctx, cs.ClassSessionID, dto.RegisterChildRequest{ClientID: "missing", ChildID: "kid-a"}, operator)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.attendance.RegisterChild(s.ctx, cs.ClassSessionID, dto.RegisterChildRequest{ClientID: client.ClientID, ChildID: "stranger"}, operator)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.attendance.RegisterChild(s.ctx, cs.ClassSessionID, dto.RegisterChildRequest{ClientID: client.ClientID}, operator)
	s.ErrorIs(err, apperrors.ErrValidation)
}

// --- marking attendance ---

func (s *AttendanceServiceTestSuite) TestMarkAttended_DebitsOnce() {
	client := s.newClient("kid-a")
	s.buy(client.ClientID, 3)
	cs := s.newSession("2025-03-01", "10:00")
	s.register(cs.ClassSessionID, client.ClientID, "kid-a")

	res, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)
	s.True(res.Changed)
	s.True(res.Charged)
	s.Require().NotNil(res.Client)
	s.Equal(int64(2), res.Client.CreditsRemaining)
	s.Require().NotNil(res.Transaction)
	s.Equal(domain.Debit, res.Transaction.Kind)
	s.Equal(cs.ClassSessionID, *res.Transaction.ClassSessionID)
	s.Equal(domain.StatusAttended, res.Session.Registrations[0].Status())
	s.True(res.Session.Registrations[0].Paid)

	// Marking again is a no-op
	res, err = s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)
	s.False(res.Changed)
	s.False(res.Charged)
	s.Nil(res.Transaction)

	s.Equal(int64(2), s.credits(client.ClientID))
	s.Equal(1, s.debits(client.ClientID))
	s.assertConsistent(client.ClientID)
}

func (s *AttendanceServiceTestSuite) TestMarkAttended_MultiChildDedupe() {
	client := s.newClient("kid-a", "kid-b")
	s.buy(client.ClientID, 4)
	cs := s.newSession("2025-03-01", "10:00")
	s.register(cs.ClassSessionID, client.ClientID, "kid-a", "kid-b")

	first, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)
	s.True(first.Charged)

	second, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-b", operator)
	s.Require().NoError(err)
	s.True(second.Changed)
	s.False(second.Charged, "the second child rides on the first debit")
	s.Equal(2, second.Session.AttendedCount(client.ClientID))

	s.Equal(int64(3), s.credits(client.ClientID))
	s.Equal(1, s.debits(client.ClientID))

	// Cancelling one child keeps the debit, cancelling the last one refunds it
	res, err := s.attendance.CancelAttendance(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)
	s.True(res.Changed)
	s.False(res.Refunded)
	s.Equal(int64(3), s.credits(client.ClientID))

	res, err = s.attendance.CancelAttendance(s.ctx, cs.ClassSessionID, client.ClientID, "kid-b", operator)
	s.Require().NoError(err)
	s.True(res.Refunded)
	s.Equal(int64(4), s.credits(client.ClientID))
	s.assertConsistent(client.ClientID)
}

func (s *AttendanceServiceTestSuite) TestMarkAttended_OtherClientsDoNotShareDebit() {
	alice := s.newClient("kid-a")
	bob := s.newClient("kid-b")
	s.buy(alice.ClientID, 1)
	s.buy(bob.ClientID, 1)
	cs := s.newSession("2025-03-01", "10:00")
	s.register(cs.ClassSessionID, alice.ClientID, "kid-a")
	s.register(cs.ClassSessionID, bob.ClientID, "kid-b")

	for _, pair := range [][2]string{{alice.ClientID, "kid-a"}, {bob.ClientID, "kid-b"}} {
		res, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, pair[0], pair[1], operator)
		s.Require().NoError(err)
		s.True(res.Charged)
	}
	s.Equal(int64(0), s.credits(alice.ClientID))
	s.Equal(int64(0), s.credits(bob.ClientID))
}

func (s *AttendanceServiceTestSuite) TestMarkAttended_InsufficientCredits() {
	client := s.newClient("kid-a")
	cs := s.newSession("2025-03-01", "10:00")
	s.register(cs.ClassSessionID, client.ClientID, "kid-a")

	_, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInsufficientCredits)
	var insufficient *apperrors.InsufficientCreditsError
	s.Require().True(errors.As(err, &insufficient))
	s.Equal(int64(0), insufficient.CreditsRemaining)

	after, err := s.attendance.GetClassSession(s.ctx, cs.ClassSessionID)
	s.Require().NoError(err)
	s.False(after.Registrations[0].Attended)
	s.False(after.Registrations[0].Paid)
	s.Equal(cs.Version+1, after.Version, "only the registration write happened")
	s.Equal(int64(0), s.credits(client.ClientID))
	s.Empty(s.ledger(client.ClientID))
}

func (s *AttendanceServiceTestSuite) TestMarkAttended_NotRegistered() {
	client := s.newClient("kid-a")
	cs := s.newSession("2025-03-01", "10:00")

	_, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.attendance.CancelAttendance(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

// Two sessions race for the last credit of one client: exactly one wins.
func (s *AttendanceServiceTestSuite) TestMarkAttended_ConcurrentLastCredit() {
	client := s.newClient("kid-a")
	s.buy(client.ClientID, 1)
	morning := s.newSession("2025-03-01", "10:00")
	evening := s.newSession("2025-03-01", "18:00")
	s.register(morning.ClassSessionID, client.ClientID, "kid-a")
	s.register(evening.ClassSessionID, client.ClientID, "kid-a")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, sessionID := range []string{morning.ClassSessionID, evening.ClassSessionID} {
		wg.Add(1)
		go func(i int, sessionID string) {
			defer wg.Done()
			_, errs[i] = s.attendance.MarkAttended(s.ctx, sessionID, client.ClientID, "kid-a", operator)
		}(i, sessionID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, apperrors.ErrInsufficientCredits)
	}
	s.Equal(1, succeeded)
	s.Equal(1, s.debits(client.ClientID))
	s.Equal(int64(0), s.credits(client.ClientID))
	s.assertConsistent(client.ClientID)
}

// --- cancellation ---

func (s *AttendanceServiceTestSuite) TestCancelAttendance_Symmetric() {
	client := s.newClient("kid-a")
	s.buy(client.ClientID, 2)
	cs := s.newSession("2025-03-01", "10:00")
	s.register(cs.ClassSessionID, client.ClientID, "kid-a")

	_, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)
	res, err := s.attendance.CancelAttendance(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)

	s.True(res.Refunded)
	s.Require().NotNil(res.Transaction)
	s.Equal(domain.Credit, res.Transaction.Kind)
	s.Equal(int64(1), res.Transaction.Credits())
	s.Equal(int64(0), res.Transaction.Amount)
	s.Equal(domain.StatusRegistered, res.Session.Registrations[0].Status())
	s.False(res.Session.Registrations[0].Paid)

	s.Equal(int64(2), s.credits(client.ClientID))
	s.Len(s.ledger(client.ClientID), 3) // purchase, debit, reversal

	// Cancelling again is a no-op
	res, err = s.attendance.CancelAttendance(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)
	s.False(res.Changed)
	s.False(res.Refunded)
	s.Len(s.ledger(client.ClientID), 3)
	s.assertConsistent(client.ClientID)
}

func (s *AttendanceServiceTestSuite) TestCancelAttendance_Window() {
	s.build(services.CancellationPolicy{Window: 2 * time.Hour, Location: time.UTC})

	client := s.newClient("kid-a")
	s.buy(client.ClientID, 2)
	cs := s.newSession("2025-03-01", "10:00")
	s.register(cs.ClassSessionID, client.ClientID, "kid-a")
	_, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)

	s.now = time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	_, err = s.attendance.CancelAttendance(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.ErrorIs(err, apperrors.ErrCancellationWindowClosed)
	s.Equal(int64(1), s.credits(client.ClientID))

	s.now = time.Date(2025, 3, 1, 11, 59, 0, 0, time.UTC)
	res, err := s.attendance.CancelAttendance(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)
	s.True(res.Refunded)
	s.Equal(int64(2), s.credits(client.ClientID))
}

// --- destructive deletes ---

func (s *AttendanceServiceTestSuite) TestDeleteRegistration_NoRefund() {
	client := s.newClient("kid-a")
	s.buy(client.ClientID, 2)
	cs := s.newSession("2025-03-01", "10:00")
	s.register(cs.ClassSessionID, client.ClientID, "kid-a")
	_, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)

	updated, err := s.attendance.DeleteRegistration(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)
	s.Empty(updated.Registrations)
	s.Equal(int64(1), s.credits(client.ClientID))

	_, err = s.attendance.DeleteRegistration(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AttendanceServiceTestSuite) TestDeleteClassSession_NoRefund() {
	client := s.newClient("kid-a")
	s.buy(client.ClientID, 2)
	cs := s.newSession("2025-03-01", "10:00")
	s.register(cs.ClassSessionID, client.ClientID, "kid-a")
	_, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)

	s.Require().NoError(s.attendance.DeleteClassSession(s.ctx, cs.ClassSessionID, operator))
	_, err = s.attendance.GetClassSession(s.ctx, cs.ClassSessionID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Equal(int64(1), s.credits(client.ClientID))
	s.assertConsistent(client.ClientID)
}

// --- sessions ---

func (s *AttendanceServiceTestSuite) TestListClassSessionsByDate() {
	s.newSession("2025-03-01", "18:00")
	s.newSession("2025-03-01", "09:00")
	s.newSession("2025-03-02", "09:00")

	sessions, err := s.attendance.ListClassSessionsByDate(s.ctx, "2025-03-01")
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal("09:00", sessions[0].Time)
	s.Equal("18:00", sessions[1].Time)

	_, err = s.attendance.ListClassSessionsByDate(s.ctx, "01.03.2025")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AttendanceServiceTestSuite) TestCreateClassSession_Validation() {
	_, err := s.attendance.CreateClassSession(s.ctx, dto.CreateClassSessionRequest{Date: "2025-02-30", Time: "10:00"}, operator)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.attendance.CreateClassSession(s.ctx, dto.CreateClassSessionRequest{Date: "2025-03-01", Time: "25:00"}, operator)
	s.ErrorIs(err, apperrors.ErrValidation)
}

// --- end-to-end with reconciliation ---

func (s *AttendanceServiceTestSuite) TestReconcileRepairsDriftAfterAttendance() {
	client := s.newClient("kid-a")
	s.buy(client.ClientID, 6)
	cs := s.newSession("2025-03-01", "10:00")
	s.register(cs.ClassSessionID, client.ClientID, "kid-a")
	_, err := s.attendance.MarkAttended(s.ctx, cs.ClassSessionID, client.ClientID, "kid-a", operator)
	s.Require().NoError(err)

	// Corrupt the counter behind the ledger's back
	stored, err := s.store.FindClientByID(s.ctx, client.ClientID)
	s.Require().NoError(err)
	stored.CreditsRemaining = 3
	s.Require().NoError(s.store.UpdateClient(s.ctx, *stored))

	other := s.newClient()
	s.buy(other.ClientID, 2)

	report, err := s.reconcile.ReconcileAll(s.ctx, domain.ReconcileOptions{ActorID: operator})
	s.Require().NoError(err)
	s.Equal(2, report.Total)
	s.Equal(1, report.Fixed)
	s.Equal(0, report.Errors)
	s.Require().Len(report.Corrections, 1)
	s.Equal(domain.BalanceCorrection{ClientID: client.ClientID, Old: 3, New: 5, Changed: true}, report.Corrections[0])
	s.Equal(int64(5), s.credits(client.ClientID))

	// A second run finds nothing to fix
	report, err = s.reconcile.ReconcileAll(s.ctx, domain.ReconcileOptions{ActorID: operator})
	s.Require().NoError(err)
	s.Equal(0, report.Fixed)
}
