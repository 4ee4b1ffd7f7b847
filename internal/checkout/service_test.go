package checkout

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

// fakeStore is an in-memory Store whose InTx serializes transactions with a
// mutex (standing in for row locks) and restores a snapshot on error
// (standing in for rollback).
type fakeStore struct {
	mu       sync.Mutex
	items    map[int64]ItemSnapshot
	points   map[int64]int
	partners map[int64]string // partner id -> available | busy

	nextOrderID int64
	orders      map[int64]fakeOrder
	details     []fakeDetail
	payments    map[int64]fakePayment
	deliveries  []fakeDelivery
}

type fakeOrder struct {
	UserID       int64
	RestaurantID int64
	TotalCents   int
	Status       string
}

type fakeDetail struct {
	OrderID       int64
	ItemID        int64
	Quantity      int
	SubtotalCents int
}

type fakePayment struct {
	Type        string
	AmountCents int
	Status      string
}

type fakeDelivery struct {
	OrderID     int64
	Destination string
	PartnerID   int64
	DistanceKm  float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:       map[int64]ItemSnapshot{},
		points:      map[int64]int{},
		partners:    map[int64]string{},
		nextOrderID: 100,
		orders:      map[int64]fakeOrder{},
		payments:    map[int64]fakePayment{},
	}
}

type storeState struct {
	Items      map[int64]ItemSnapshot
	Points     map[int64]int
	Partners   map[int64]string
	NextID     int64
	Orders     map[int64]fakeOrder
	Details    []fakeDetail
	Payments   map[int64]fakePayment
	Deliveries []fakeDelivery
}

func (s *fakeStore) state() storeState {
	st := storeState{
		Items:    map[int64]ItemSnapshot{},
		Points:   map[int64]int{},
		Partners: map[int64]string{},
		NextID:   s.nextOrderID,
		Orders:   map[int64]fakeOrder{},
		Payments: map[int64]fakePayment{},
	}
	for k, v := range s.items {
		st.Items[k] = v
	}
	for k, v := range s.points {
		st.Points[k] = v
	}
	for k, v := range s.partners {
		st.Partners[k] = v
	}
	for k, v := range s.orders {
		st.Orders[k] = v
	}
	st.Details = append(st.Details, s.details...)
	st.Deliveries = append(st.Deliveries, s.deliveries...)
	for k, v := range s.payments {
		st.Payments[k] = v
	}
	return st
}

func (s *fakeStore) restore(st storeState) {
	s.items = st.Items
	s.points = st.Points
	s.partners = st.Partners
	s.nextOrderID = st.NextID
	s.orders = st.Orders
	s.details = st.Details
	s.payments = st.Payments
	s.deliveries = st.Deliveries
}

func (s *fakeStore) InTx(ctx context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state()
	if err := fn((*fakeTx)(s)); err != nil {
		s.restore(before)
		return err
	}
	return nil
}

type fakeTx fakeStore

func (t *fakeTx) MenuItemForUpdate(ctx context.Context, itemID int64) (ItemSnapshot, error) {
	it, ok := t.items[itemID]
	if !ok {
		return ItemSnapshot{}, ErrItemNotFound
	}
	return it, nil
}

func (t *fakeTx) UserLoyaltyPoints(ctx context.Context, userID int64) (int, error) {
	return t.points[userID], nil
}

func (t *fakeTx) DecrementStock(ctx context.Context, itemID int64, qty int) (bool, error) {
	it := t.items[itemID]
	if it.Stock < qty {
		return false, nil
	}
	it.Stock -= qty
	t.items[itemID] = it
	return true, nil
}

func (t *fakeTx) InsertOrder(ctx context.Context, userID, restaurantID int64, totalCents int) (int64, error) {
	t.nextOrderID++
	t.orders[t.nextOrderID] = fakeOrder{UserID: userID, RestaurantID: restaurantID, TotalCents: totalCents, Status: "pending"}
	return t.nextOrderID, nil
}

func (t *fakeTx) InsertOrderDetail(ctx context.Context, orderID, itemID int64, qty, subtotalCents int) error {
	t.details = append(t.details, fakeDetail{OrderID: orderID, ItemID: itemID, Quantity: qty, SubtotalCents: subtotalCents})
	return nil
}

func (t *fakeTx) InsertPayment(ctx context.Context, orderID int64, paymentType string, amountCents int) error {
	t.payments[orderID] = fakePayment{Type: paymentType, AmountCents: amountCents, Status: "pending"}
	return nil
}

func (t *fakeTx) ClaimAvailablePartner(ctx context.Context) (int64, bool, error) {
	var best int64 = -1
	for id, status := range t.partners {
		if status == "available" && (best == -1 || id < best) {
			best = id
		}
	}
	if best == -1 {
		return 0, false, nil
	}
	t.partners[best] = "busy"
	return best, true, nil
}

func (t *fakeTx) InsertDelivery(ctx context.Context, orderID int64, destination string, partnerID int64, distanceKm float64) error {
	t.deliveries = append(t.deliveries, fakeDelivery{OrderID: orderID, Destination: destination, PartnerID: partnerID, DistanceKm: distanceKm})
	return nil
}

func (t *fakeTx) ConfirmOrder(ctx context.Context, orderID int64) error {
	o := t.orders[orderID]
	o.Status = "confirmed"
	t.orders[orderID] = o
	p := t.payments[orderID]
	p.Status = "completed"
	t.payments[orderID] = p
	return nil
}

func seed(st *fakeStore) {
	st.items[1] = ItemSnapshot{ID: 1, Name: "margherita", PriceCents: 1200, Stock: 10, Available: true}
	st.items[2] = ItemSnapshot{ID: 2, Name: "garlic bread", PriceCents: 400, Stock: 5, Available: true}
	st.items[3] = ItemSnapshot{ID: 3, Name: "tiramisu", PriceCents: 600, Stock: 0, Available: true}
	st.items[4] = ItemSnapshot{ID: 4, Name: "seasonal special", PriceCents: 900, Stock: 8, Available: false}
	st.points[7] = 500
	st.points[8] = 50
}

func TestPlaceOrderSuccess(t *testing.T) {
	st := newFakeStore()
	seed(st)
	svc := &Service{Store: st}

	res, err := svc.PlaceOrder(context.Background(), 7, Request{
		RestaurantID: 1,
		Items:        []CartLine{{ItemID: 1, Quantity: 2}, {ItemID: 2, Quantity: 3}},
		PaymentType:  "cash",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	wantTotal := 2*1200 + 3*400
	if res.TotalCents != wantTotal {
		t.Errorf("total = %d, want %d", res.TotalCents, wantTotal)
	}
	o, ok := st.orders[res.OrderID]
	if !ok || o.Status != "confirmed" {
		t.Errorf("order = %+v, want confirmed", o)
	}
	p := st.payments[res.OrderID]
	if p.Status != "completed" || p.Type != "cash" || p.AmountCents != wantTotal {
		t.Errorf("payment = %+v", p)
	}
	if len(st.details) != 2 {
		t.Fatalf("details = %d, want 2", len(st.details))
	}
	sum := 0
	for _, d := range st.details {
		sum += d.SubtotalCents
	}
	if sum != wantTotal {
		t.Errorf("subtotal sum = %d, want %d", sum, wantTotal)
	}
	if st.items[1].Stock != 8 || st.items[2].Stock != 2 {
		t.Errorf("stock after = %d, %d; want 8, 2", st.items[1].Stock, st.items[2].Stock)
	}
	if len(st.deliveries) != 0 {
		t.Errorf("unexpected delivery rows: %+v", st.deliveries)
	}
}

func TestPlaceOrderRollsBackOnShortStock(t *testing.T) {
	st := newFakeStore()
	seed(st)
	before := st.state()
	svc := &Service{Store: st}

	_, err := svc.PlaceOrder(context.Background(), 7, Request{
		RestaurantID: 1,
		Items:        []CartLine{{ItemID: 1, Quantity: 2}, {ItemID: 3, Quantity: 1}},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if !reflect.DeepEqual(st.state(), before) {
		t.Errorf("store state changed by failed checkout")
	}
}

func TestPlaceOrderUnknownItem(t *testing.T) {
	st := newFakeStore()
	seed(st)
	svc := &Service{Store: st}

	_, err := svc.PlaceOrder(context.Background(), 7, Request{
		RestaurantID: 1,
		Items:        []CartLine{{ItemID: 99, Quantity: 1}},
	})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
}

func TestPlaceOrderUnavailableItem(t *testing.T) {
	st := newFakeStore()
	seed(st)
	before := st.state()
	svc := &Service{Store: st}

	_, err := svc.PlaceOrder(context.Background(), 7, Request{
		RestaurantID: 1,
		Items:        []CartLine{{ItemID: 4, Quantity: 1}},
	})
	if !errors.Is(err, ErrItemUnavailable) {
		t.Fatalf("err = %v, want ErrItemUnavailable", err)
	}
	if !reflect.DeepEqual(st.state(), before) {
		t.Errorf("store state changed by failed checkout")
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	st := newFakeStore()
	seed(st)
	svc := &Service{Store: st}

	cases := []Request{
		{RestaurantID: 0, Items: []CartLine{{ItemID: 1, Quantity: 1}}},
		{RestaurantID: 1, Items: nil},
		{RestaurantID: 1, Items: []CartLine{{ItemID: 1, Quantity: 0}}},
		{RestaurantID: 1, Items: []CartLine{{ItemID: 1, Quantity: -2}}},
	}
	for _, req := range cases {
		if _, err := svc.PlaceOrder(context.Background(), 7, req); !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("req %+v: err = %v, want ErrInvalidOrder", req, err)
		}
	}
	if len(st.orders) != 0 {
		t.Errorf("validation failures wrote orders: %+v", st.orders)
	}
}

func TestPlaceOrderLoyaltyDiscount(t *testing.T) {
	st := newFakeStore()
	seed(st)
	st.items[5] = ItemSnapshot{ID: 5, Name: "family feast", PriceCents: 20000, Stock: 3, Available: true}
	svc := &Service{Store: st}

	// 500 points on a 200.00 order: min(20.00, 50.00) off
	res, err := svc.PlaceOrder(context.Background(), 7, Request{
		RestaurantID:     1,
		Items:            []CartLine{{ItemID: 5, Quantity: 1}},
		UseLoyaltyPoints: true,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if res.TotalCents != 18000 {
		t.Errorf("discounted total = %d, want 18000", res.TotalCents)
	}
	if st.orders[res.OrderID].TotalCents != 18000 || st.payments[res.OrderID].AmountCents != 18000 {
		t.Errorf("persisted totals: order=%d payment=%d, want 18000",
			st.orders[res.OrderID].TotalCents, st.payments[res.OrderID].AmountCents)
	}

	// 50 points: not eligible, no discount
	res, err = svc.PlaceOrder(context.Background(), 8, Request{
		RestaurantID:     1,
		Items:            []CartLine{{ItemID: 5, Quantity: 1}},
		UseLoyaltyPoints: true,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if res.TotalCents != 20000 {
		t.Errorf("ineligible total = %d, want 20000", res.TotalCents)
	}
}

func TestPlaceOrderDeliveryAssignment(t *testing.T) {
	st := newFakeStore()
	seed(st)
	st.partners[3] = "available"
	st.partners[1] = "busy"
	st.partners[2] = "available"
	svc := &Service{Store: st}

	res, err := svc.PlaceOrder(context.Background(), 7, Request{
		RestaurantID: 1,
		Items:        []CartLine{{ItemID: 1, Quantity: 1}},
		Destination:  "12 Elm Street",
		DistanceKm:   4.2,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if !res.HasDelivery || len(st.deliveries) != 1 {
		t.Fatalf("deliveries = %+v, want exactly one", st.deliveries)
	}
	d := st.deliveries[0]
	if d.PartnerID != 2 {
		t.Errorf("claimed partner %d, want lowest available id 2", d.PartnerID)
	}
	if st.partners[2] != "busy" {
		t.Errorf("partner 2 status = %s, want busy", st.partners[2])
	}
	if d.OrderID != res.OrderID || d.Destination != "12 Elm Street" || d.DistanceKm != 4.2 {
		t.Errorf("delivery = %+v", d)
	}
}

func TestPlaceOrderNoPartnerAvailable(t *testing.T) {
	st := newFakeStore()
	seed(st)
	st.partners[1] = "busy"
	svc := &Service{Store: st}

	res, err := svc.PlaceOrder(context.Background(), 7, Request{
		RestaurantID: 1,
		Items:        []CartLine{{ItemID: 1, Quantity: 1}},
		Destination:  "12 Elm Street",
		DistanceKm:   4.2,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if res.HasDelivery || len(st.deliveries) != 0 {
		t.Errorf("expected no delivery, got %+v", st.deliveries)
	}
	if st.orders[res.OrderID].Status != "confirmed" {
		t.Errorf("order not confirmed without a partner")
	}
}

func TestConcurrentCheckoutsLastUnit(t *testing.T) {
	st := newFakeStore()
	st.items[1] = ItemSnapshot{ID: 1, Name: "last slice", PriceCents: 700, Stock: 1, Available: true}
	svc := &Service{Store: st}

	req := Request{RestaurantID: 1, Items: []CartLine{{ItemID: 1, Quantity: 1}}}
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), 7, req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var okCount, conflictCount int
	for err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, ErrInsufficientStock):
			conflictCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || conflictCount != 1 {
		t.Fatalf("got %d successes, %d conflicts; want 1 and 1", okCount, conflictCount)
	}
	if st.items[1].Stock != 0 {
		t.Fatalf("stock = %d, want 0 and never negative", st.items[1].Stock)
	}
}

func TestConcurrentCheckoutsDistinctPartners(t *testing.T) {
	st := newFakeStore()
	seed(st)
	st.partners[1] = "available"
	st.partners[2] = "available"
	svc := &Service{Store: st}

	req := Request{
		RestaurantID: 1,
		Items:        []CartLine{{ItemID: 1, Quantity: 1}},
		Destination:  "somewhere",
		DistanceKm:   1.5,
	}
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.PlaceOrder(context.Background(), 7, req); err != nil {
				t.Errorf("PlaceOrder: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(st.deliveries) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(st.deliveries))
	}
	if st.deliveries[0].PartnerID == st.deliveries[1].PartnerID {
		t.Fatalf("both orders claimed partner %d", st.deliveries[0].PartnerID)
	}
}
