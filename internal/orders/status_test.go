package orders

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("shipped").Valid() {
		t.Error("unknown status accepted")
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusConfirmed, StatusPreparing},
		{StatusPreparing, StatusReady},
		{StatusReady, StatusOutForDelivery},
		{StatusOutForDelivery, StatusDelivered},
		{StatusReady, StatusDelivered}, // pickup orders skip the courier leg
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCancelled},
		{StatusPreparing, StatusCancelled},
	}
	for _, tr := range allowed {
		if !CanTransition(tr.from, tr.to) {
			t.Errorf("%s -> %s should be allowed", tr.from, tr.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusDelivered, StatusPending},
		{StatusCancelled, StatusConfirmed},
		{StatusPending, StatusDelivered},
		{StatusOutForDelivery, StatusCancelled},
		{StatusConfirmed, StatusConfirmed},
	}
	for _, tr := range denied {
		if CanTransition(tr.from, tr.to) {
			t.Errorf("%s -> %s should be rejected", tr.from, tr.to)
		}
	}
}
