package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oneworldlabs/oneworld/internal/storage/models"
)

const testSupply int64 = 1_000_000

func setupTestDB(t *testing.T) (*Storage, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "oneworld-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	storage, err := New(dbPath, testSupply)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create storage: %v", err)
	}

	cleanup := func() {
		storage.Close()
		os.RemoveAll(tmpDir)
	}

	return storage, cleanup
}

func mustCreateUser(t *testing.T, s *Storage, id int64, airdrop int64) *models.User {
	t.Helper()

	u := &models.User{ID: id, Username: "user", FirstName: "User"}
	created, err := s.CreateUser(u, airdrop)
	if err != nil {
		t.Fatalf("CreateUser(%d) failed: %v", id, err)
	}
	if !created {
		t.Fatalf("CreateUser(%d) reported existing user", id)
	}
	return u
}

func TestTreasurySeeding(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	treasury, err := storage.GetUser(models.TreasuryID)
	if err != nil {
		t.Fatalf("GetUser(treasury) failed: %v", err)
	}
	if treasury.Balance != testSupply {
		t.Errorf("expected treasury balance %d, got %d", testSupply, treasury.Balance)
	}
	if !treasury.IsTreasury() {
		t.Error("expected IsTreasury to be true")
	}
}

func TestCreateUserAirdrop(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	u := &models.User{ID: 100, Username: "alice", FirstName: "Alice"}
	created, err := storage.CreateUser(u, 1000)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if !created {
		t.Fatal("expected user to be created")
	}
	if u.Balance != 1000 {
		t.Errorf("expected airdrop balance 1000, got %d", u.Balance)
	}
	if len(u.RefCode) != 6 {
		t.Errorf("expected 6-char referral code, got %q", u.RefCode)
	}

	got, err := storage.GetUser(100)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Balance != 1000 {
		t.Errorf("expected stored balance 1000, got %d", got.Balance)
	}
	if got.RefCode != u.RefCode {
		t.Errorf("expected stored ref code %q, got %q", u.RefCode, got.RefCode)
	}

	treasury, _ := storage.GetUser(models.TreasuryID)
	if treasury.Balance != testSupply-1000 {
		t.Errorf("expected treasury %d, got %d", testSupply-1000, treasury.Balance)
	}

	// Second enrollment pays nothing.
	created, err = storage.CreateUser(&models.User{ID: 100}, 1000)
	if err != nil {
		t.Fatalf("repeat CreateUser failed: %v", err)
	}
	if created {
		t.Error("expected repeat enrollment to report existing user")
	}
	got, _ = storage.GetUser(100)
	if got.Balance != 1000 {
		t.Errorf("repeat enrollment changed balance to %d", got.Balance)
	}
}

func TestAirdropSkippedWhenTreasuryShort(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	// Drain the treasury to below the airdrop amount.
	mustCreateUser(t, storage, 1, 0)
	if _, err := storage.Transfer(models.TreasuryID, 1, testSupply-500, models.KindTransfer, ""); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	u := &models.User{ID: 2}
	created, err := storage.CreateUser(u, 1000)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if !created {
		t.Fatal("expected user to be created")
	}
	if u.Balance != 0 {
		t.Errorf("expected airdrop skipped, got balance %d", u.Balance)
	}

	treasury, _ := storage.GetUser(models.TreasuryID)
	if treasury.Balance != 500 {
		t.Errorf("expected treasury 500, got %d", treasury.Balance)
	}
}

func TestApplyReferral(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	referrer := mustCreateUser(t, storage, 1, 1000)
	mustCreateUser(t, storage, 2, 1000)

	got, err := storage.ApplyReferral(2, referrer.RefCode, 50)
	if err != nil {
		t.Fatalf("ApplyReferral failed: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("expected referrer 1, got %d", got.ID)
	}

	invitee, _ := storage.GetUser(2)
	if invitee.Balance != 1050 {
		t.Errorf("expected invitee balance 1050, got %d", invitee.Balance)
	}
	if invitee.ReferredBy != 1 {
		t.Errorf("expected referred_by 1, got %d", invitee.ReferredBy)
	}
	ref, _ := storage.GetUser(1)
	if ref.Balance != 1050 {
		t.Errorf("expected referrer balance 1050, got %d", ref.Balance)
	}

	// A user can only be referred once.
	if _, err := storage.ApplyReferral(2, referrer.RefCode, 50); err != ErrAlreadyClaimed {
		t.Errorf("expected ErrAlreadyClaimed, got %v", err)
	}

	// Unknown codes and self-referral are refused.
	if _, err := storage.ApplyReferral(2, "zzzzzz", 50); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown code, got %v", err)
	}
	if _, err := storage.ApplyReferral(1, referrer.RefCode, 50); err != ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput for self-referral, got %v", err)
	}

	ref, _ = storage.GetUser(1)
	if ref.Balance != 1050 {
		t.Errorf("refused referrals changed balance to %d", ref.Balance)
	}
}

func TestTransfer(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreateUser(t, storage, 1, 100)
	mustCreateUser(t, storage, 2, 100)

	tx, err := storage.Transfer(1, 2, 40, models.KindTransfer, "")
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if tx.ID == 0 {
		t.Error("expected ledger row ID")
	}
	if tx.Status != models.StatusDone {
		t.Errorf("expected status done, got %q", tx.Status)
	}

	from, _ := storage.GetUser(1)
	to, _ := storage.GetUser(2)
	if from.Balance != 60 || to.Balance != 140 {
		t.Errorf("expected balances 60/140, got %d/%d", from.Balance, to.Balance)
	}

	if _, err := storage.Transfer(1, 2, 1000, models.KindTransfer, ""); err != ErrInsufficientFunds {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := storage.Transfer(1, 1, 10, models.KindTransfer, ""); err != ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput for self transfer, got %v", err)
	}
	if _, err := storage.Transfer(1, 2, 0, models.KindTransfer, ""); err != ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput for zero amount, got %v", err)
	}
	if _, err := storage.Transfer(998, 999, 10, models.KindTransfer, ""); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown sender, got %v", err)
	}

	history, err := storage.History(1, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 { // airdrop + transfer
		t.Fatalf("expected 2 ledger rows, got %d", len(history))
	}
	if history[0].Kind != models.KindTransfer {
		t.Errorf("expected newest row first, got kind %q", history[0].Kind)
	}
}

func TestClaimTaskOnce(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreateUser(t, storage, 1, 100)

	claim, err := storage.ClaimTask(1, "join_channel", 20)
	if err != nil {
		t.Fatalf("ClaimTask failed: %v", err)
	}
	if claim.Reward != 20 {
		t.Errorf("expected reward 20, got %d", claim.Reward)
	}

	u, _ := storage.GetUser(1)
	if u.Balance != 120 {
		t.Errorf("expected balance 120, got %d", u.Balance)
	}

	if _, err := storage.ClaimTask(1, "join_channel", 20); err != ErrAlreadyClaimed {
		t.Errorf("expected ErrAlreadyClaimed, got %v", err)
	}
	u, _ = storage.GetUser(1)
	if u.Balance != 120 {
		t.Errorf("second claim changed balance to %d", u.Balance)
	}

	claims, err := storage.ClaimedTasks(1)
	if err != nil {
		t.Fatalf("ClaimedTasks failed: %v", err)
	}
	if len(claims) != 1 || claims[0].Task != "join_channel" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestDepositLifecycle(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreateUser(t, storage, 1, 0)

	dep, err := storage.RecordDeposit(1, "0xabc123")
	if err != nil {
		t.Fatalf("RecordDeposit failed: %v", err)
	}
	if dep.Status != models.StatusPending || dep.Amount != 0 {
		t.Errorf("expected pending zero-amount claim, got %+v", dep)
	}

	if _, err := storage.RecordDeposit(1, "0xabc123"); err != ErrDuplicateKey {
		t.Errorf("expected ErrDuplicateKey for reused hash, got %v", err)
	}
	if _, err := storage.RecordDeposit(1, ""); err != ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput for empty hash, got %v", err)
	}

	pending, err := storage.PendingDeposits(10)
	if err != nil {
		t.Fatalf("PendingDeposits failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != dep.ID {
		t.Fatalf("unexpected pending set: %+v", pending)
	}

	if err := storage.SettleDeposit(dep.ID, 5000); err != nil {
		t.Fatalf("SettleDeposit failed: %v", err)
	}

	u, _ := storage.GetUser(1)
	if u.Balance != 5000 {
		t.Errorf("expected balance 5000 after settle, got %d", u.Balance)
	}
	settled, _ := storage.GetTransaction(dep.ID)
	if settled.Status != models.StatusDone || settled.Amount != 5000 {
		t.Errorf("expected settled row, got %+v", settled)
	}

	// Settling twice finds no pending row.
	if err := storage.SettleDeposit(dep.ID, 5000); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on double settle, got %v", err)
	}

	// Failed verification keeps the balance untouched.
	dep2, err := storage.RecordDeposit(1, "0xdef456")
	if err != nil {
		t.Fatalf("RecordDeposit failed: %v", err)
	}
	if err := storage.FailDeposit(dep2.ID); err != nil {
		t.Fatalf("FailDeposit failed: %v", err)
	}
	u, _ = storage.GetUser(1)
	if u.Balance != 5000 {
		t.Errorf("failed deposit changed balance to %d", u.Balance)
	}
	pending, _ = storage.PendingDeposits(10)
	if len(pending) != 0 {
		t.Errorf("expected no pending deposits, got %d", len(pending))
	}
}

func TestSubscribe(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreateUser(t, storage, 1, 2000)

	sub, err := storage.Subscribe(1, "basic", 500, 30)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if !sub.Active(sub.StartedAt.AddDate(0, 0, 29)) {
		t.Error("expected subscription active on day 29")
	}
	if sub.Active(sub.StartedAt.AddDate(0, 0, 31)) {
		t.Error("expected subscription expired on day 31")
	}

	u, _ := storage.GetUser(1)
	if u.Balance != 1500 {
		t.Errorf("expected balance 1500 after basic plan, got %d", u.Balance)
	}

	// Upgrading replaces the plan.
	sub, err = storage.Subscribe(1, "premium", 1200, 30)
	if err != nil {
		t.Fatalf("Subscribe upgrade failed: %v", err)
	}
	got, err := storage.GetSubscription(1)
	if err != nil {
		t.Fatalf("GetSubscription failed: %v", err)
	}
	if got.Plan != "premium" {
		t.Errorf("expected premium plan, got %q", got.Plan)
	}

	// Not enough coins for another purchase.
	if _, err := storage.Subscribe(1, "premium", 1200, 30); err != ErrInsufficientFunds {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}

	if _, err := storage.GetSubscription(2); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unsubscribed user, got %v", err)
	}
}

func TestBuyStorage(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreateUser(t, storage, 1, 100)

	space, err := storage.GetStorage(1)
	if err != nil {
		t.Fatalf("GetStorage failed: %v", err)
	}
	if space.Units != 0 {
		t.Errorf("expected zero units, got %d", space.Units)
	}

	space, err = storage.BuyStorage(1, 10, 1)
	if err != nil {
		t.Fatalf("BuyStorage failed: %v", err)
	}
	if space.Units != 10 {
		t.Errorf("expected 10 units, got %d", space.Units)
	}

	space, err = storage.BuyStorage(1, 5, 1)
	if err != nil {
		t.Fatalf("second BuyStorage failed: %v", err)
	}
	if space.Units != 15 {
		t.Errorf("expected 15 units, got %d", space.Units)
	}

	u, _ := storage.GetUser(1)
	if u.Balance != 85 {
		t.Errorf("expected balance 85, got %d", u.Balance)
	}

	if _, err := storage.BuyStorage(1, 1000, 1); err != ErrInsufficientFunds {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestPresaleFlow(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreateUser(t, storage, 1, 0)

	order, err := storage.CreatePresaleOrder(1, 50, 50)
	if err != nil {
		t.Fatalf("CreatePresaleOrder failed: %v", err)
	}
	if order.ID == "" || order.Status != models.OrderBooked {
		t.Errorf("unexpected order: %+v", order)
	}

	all, err := storage.ListOrders(10)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != order.ID {
		t.Fatalf("unexpected order list: %+v", all)
	}

	released, err := storage.ReleaseOrder(order.ID)
	if err != nil {
		t.Fatalf("ReleaseOrder failed: %v", err)
	}
	if released.Status != models.OrderReleased {
		t.Errorf("expected released status, got %q", released.Status)
	}

	u, _ := storage.GetUser(1)
	if u.Balance != 50 {
		t.Errorf("expected balance 50 after presale credit, got %d", u.Balance)
	}

	if _, err := storage.ReleaseOrder(order.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on double release, got %v", err)
	}

	// Released orders stay in the admin listing.
	all, _ = storage.ListOrders(10)
	if len(all) != 1 || all[0].Status != models.OrderReleased {
		t.Errorf("unexpected order list after release: %+v", all)
	}

	orders, err := storage.PresaleOrders(1)
	if err != nil {
		t.Fatalf("PresaleOrders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].Status != models.OrderReleased {
		t.Errorf("unexpected orders: %+v", orders)
	}
}

func TestSupplyConservation(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	referrer := mustCreateUser(t, storage, 1, 1000)
	mustCreateUser(t, storage, 2, 1000)
	if _, err := storage.ApplyReferral(2, referrer.RefCode, 50); err != nil {
		t.Fatalf("ApplyReferral failed: %v", err)
	}
	if _, err := storage.ClaimTask(1, "like_post", 10); err != nil {
		t.Fatalf("ClaimTask failed: %v", err)
	}
	if _, err := storage.Transfer(1, 2, 200, models.KindTransfer, ""); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if _, err := storage.Subscribe(2, "basic", 500, 30); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if _, err := storage.BuyStorage(1, 7, 1); err != nil {
		t.Fatalf("BuyStorage failed: %v", err)
	}

	stats, err := storage.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Treasury+stats.Circulating != testSupply {
		t.Errorf("supply leak: treasury %d + circulating %d != %d",
			stats.Treasury, stats.Circulating, testSupply)
	}
	if stats.Users != 2 {
		t.Errorf("expected 2 users, got %d", stats.Users)
	}
	if stats.StorageUnits != 7 {
		t.Errorf("expected 7 storage units, got %d", stats.StorageUnits)
	}
	if stats.ActiveSubs != 1 {
		t.Errorf("expected 1 active sub, got %d", stats.ActiveSubs)
	}
}

func TestClosedStorage(t *testing.T) {
	storage, cleanup := setupTestDB(t)
	defer cleanup()

	if err := storage.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := storage.GetUser(1); err != ErrStorageClosed {
		t.Errorf("expected ErrStorageClosed, got %v", err)
	}
	if _, err := storage.Transfer(1, 2, 10, models.KindTransfer, ""); err != ErrStorageClosed {
		t.Errorf("expected ErrStorageClosed, got %v", err)
	}
	if err := storage.Close(); err != nil {
		t.Errorf("double Close failed: %v", err)
	}
}
