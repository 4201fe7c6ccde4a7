// Package store persists purchases and items as CSV files under a project
// directory.
package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/resale-dev/resale/internal/id"
	"github.com/resale-dev/resale/internal/invoice"
	"github.com/resale-dev/resale/internal/model"
)

// DataDir is the subdirectory holding the CSV files.
const DataDir = "data"

const (
	purchasesFile = "purchases.csv"
	itemsFile     = "items.csv"
)

var (
	// ErrNotFound is returned when no record matches an ID.
	ErrNotFound = id.ErrNotFound
	// ErrAmbiguousID is returned when an ID prefix matches several records.
	ErrAmbiguousID = id.ErrAmbiguous
)

// Service provides CRUD over purchases and items. It is safe for concurrent
// use; every call reads the files fresh and returns copies.
type Service struct {
	mu   sync.Mutex
	root string
	now  func() time.Time
}

// NewService creates a Service rooted at a project directory.
func NewService(root string) *Service {
	return &Service{root: root, now: time.Now}
}

// Init creates the data directory and writes header-only files for any
// collection that does not exist yet.
func (s *Service) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(purchasesFile)); errors.Is(err, fs.ErrNotExist) {
		if err := s.writePurchases(nil); err != nil {
			return err
		}
	}
	if _, err := os.Stat(s.path(itemsFile)); errors.Is(err, fs.ErrNotExist) {
		if err := s.writeItems(nil); err != nil {
			return err
		}
	}
	return nil
}

// PurchasePatch holds the purchase fields to change; nil fields are kept.
type PurchasePatch struct {
	Name      *string
	Vendor    *string
	Date      *string
	TotalCost *decimal.Decimal
	Notes     *string
}

// ItemPatch holds the item fields to change; nil fields are kept.
type ItemPatch struct {
	Name               *string
	Category           *string
	Brand              *string
	Size               *string
	AllocatedCost      *decimal.Decimal
	ListingDescription *string
	ConditionReport    *string
	ListingDate        *string
	ListingPrice       *decimal.NullDecimal
	SaleDate           *string
	SalePrice          *decimal.NullDecimal
	PlatformFees       *decimal.Decimal
	Status             *model.ItemStatus
	Notes              *string
}

// Apply copies the non-nil fields of patch onto p.
func (patch PurchasePatch) Apply(p *model.Purchase) {
	setString(&p.Name, patch.Name)
	setString(&p.Vendor, patch.Vendor)
	setString(&p.Date, patch.Date)
	setString(&p.Notes, patch.Notes)
	if patch.TotalCost != nil {
		p.TotalCost = *patch.TotalCost
	}
}

// Apply copies the non-nil fields of patch onto it and recomputes its net
// profit. it is left untouched when the status is invalid.
func (patch ItemPatch) Apply(it *model.Item) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return fmt.Errorf("invalid status %q", *patch.Status)
	}
	setString(&it.Name, patch.Name)
	setString(&it.Category, patch.Category)
	setString(&it.Brand, patch.Brand)
	setString(&it.Size, patch.Size)
	setString(&it.ListingDescription, patch.ListingDescription)
	setString(&it.ConditionReport, patch.ConditionReport)
	setString(&it.ListingDate, patch.ListingDate)
	setString(&it.SaleDate, patch.SaleDate)
	setString(&it.Notes, patch.Notes)
	if patch.AllocatedCost != nil {
		it.AllocatedCost = *patch.AllocatedCost
	}
	if patch.ListingPrice != nil {
		it.ListingPrice = *patch.ListingPrice
	}
	if patch.SalePrice != nil {
		it.SalePrice = *patch.SalePrice
	}
	if patch.PlatformFees != nil {
		it.PlatformFees = *patch.PlatformFees
	}
	if patch.Status != nil {
		it.Status = *patch.Status
	}
	it.ComputeNetProfit()
	return nil
}

// --- Purchases ---

// ListPurchases returns all purchases in insertion order.
func (s *Service) ListPurchases() ([]model.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readPurchases()
}

// GetPurchase returns the purchase whose ID is ref or starts with ref.
func (s *Service) GetPurchase(ref string) (model.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchases, err := s.readPurchases()
	if err != nil {
		return model.Purchase{}, err
	}
	i, err := findPurchase(purchases, ref)
	if err != nil {
		return model.Purchase{}, err
	}
	return purchases[i], nil
}

// CreatePurchase assigns an ID, fills defaults and appends p.
func (s *Service) CreatePurchase(p model.Purchase) (model.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchases, err := s.readPurchases()
	if err != nil {
		return model.Purchase{}, err
	}
	p = s.newPurchase(p)
	if err := s.writePurchases(append(purchases, p)); err != nil {
		return model.Purchase{}, err
	}
	return p, nil
}

// UpdatePurchase applies patch to the purchase matching ref.
func (s *Service) UpdatePurchase(ref string, patch PurchasePatch) (model.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchases, err := s.readPurchases()
	if err != nil {
		return model.Purchase{}, err
	}
	i, err := findPurchase(purchases, ref)
	if err != nil {
		return model.Purchase{}, err
	}

	p := &purchases[i]
	patch.Apply(p)

	if err := s.writePurchases(purchases); err != nil {
		return model.Purchase{}, err
	}
	return *p, nil
}

// DeletePurchase removes the purchase matching ref and all of its items.
// It returns the number of items removed.
func (s *Service) DeletePurchase(ref string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchases, err := s.readPurchases()
	if err != nil {
		return 0, err
	}
	i, err := findPurchase(purchases, ref)
	if err != nil {
		return 0, err
	}
	purchaseID := purchases[i].ID

	items, err := s.readItems()
	if err != nil {
		return 0, err
	}
	kept := items[:0]
	for _, it := range items {
		if it.PurchaseID != purchaseID {
			kept = append(kept, it)
		}
	}
	removed := len(items) - len(kept)

	if err := s.writeItems(kept); err != nil {
		return 0, err
	}
	if err := s.writePurchases(append(purchases[:i], purchases[i+1:]...)); err != nil {
		return 0, err
	}
	return removed, nil
}

// --- Items ---

// ListItems returns all items in insertion order.
func (s *Service) ListItems() ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readItems()
}

// ItemsByPurchase returns the items belonging to purchaseID.
func (s *Service) ItemsByPurchase(purchaseID string) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readItems()
	if err != nil {
		return nil, err
	}
	var result []model.Item
	for _, it := range items {
		if it.PurchaseID == purchaseID {
			result = append(result, it)
		}
	}
	return result, nil
}

// GetItem returns the item whose ID is ref or starts with ref.
func (s *Service) GetItem(ref string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readItems()
	if err != nil {
		return model.Item{}, err
	}
	i, err := findItem(items, ref)
	if err != nil {
		return model.Item{}, err
	}
	return items[i], nil
}

// CreateItem assigns an ID, fills defaults and appends it.
func (s *Service) CreateItem(it model.Item) (model.Item, error) {
	created, err := s.CreateItems([]model.Item{it})
	if err != nil {
		return model.Item{}, err
	}
	return created[0], nil
}

// CreateItems assigns IDs, fills defaults and appends items in order.
func (s *Service) CreateItems(items []model.Item) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readItems()
	if err != nil {
		return nil, err
	}
	created, err := newItems(items)
	if err != nil {
		return nil, err
	}
	if err := s.writeItems(append(existing, created...)); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateItem applies patch to the item matching ref and recomputes its net
// profit.
func (s *Service) UpdateItem(ref string, patch ItemPatch) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readItems()
	if err != nil {
		return model.Item{}, err
	}
	i, err := findItem(items, ref)
	if err != nil {
		return model.Item{}, err
	}

	it := &items[i]
	if err := patch.Apply(it); err != nil {
		return model.Item{}, err
	}

	if err := s.writeItems(items); err != nil {
		return model.Item{}, err
	}
	return *it, nil
}

// DeleteItem removes the item matching ref.
func (s *Service) DeleteItem(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readItems()
	if err != nil {
		return err
	}
	i, err := findItem(items, ref)
	if err != nil {
		return err
	}
	return s.writeItems(append(items[:i], items[i+1:]...))
}

// SaveDraft persists an extracted purchase and then its items, linked to the
// new purchase ID.
func (s *Service) SaveDraft(res *invoice.Result) (model.Purchase, []model.Item, error) {
	if res == nil {
		return model.Purchase{}, nil, errors.New("nil draft")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	purchases, err := s.readPurchases()
	if err != nil {
		return model.Purchase{}, nil, err
	}
	items, err := s.readItems()
	if err != nil {
		return model.Purchase{}, nil, err
	}

	d := res.Purchase
	p := s.newPurchase(model.Purchase{
		Name:      d.Name,
		Vendor:    d.Vendor,
		Date:      d.Date,
		TotalCost: d.TotalCost,
		Notes:     d.Notes,
	})

	drafts := make([]model.Item, len(res.Items))
	for i, di := range res.Items {
		drafts[i] = model.Item{
			PurchaseID:    p.ID,
			Name:          di.Name,
			Category:      di.Category,
			Brand:         di.Brand,
			Size:          di.Size,
			AllocatedCost: di.AllocatedCost,
			Status:        model.ItemStatus(di.Status),
		}
	}
	created, err := newItems(drafts)
	if err != nil {
		return model.Purchase{}, nil, err
	}

	if err := s.writePurchases(append(purchases, p)); err != nil {
		return model.Purchase{}, nil, err
	}
	if err := s.writeItems(append(items, created...)); err != nil {
		return model.Purchase{}, nil, err
	}
	return p, created, nil
}

// --- helpers ---

func (s *Service) newPurchase(p model.Purchase) model.Purchase {
	p.ID = id.New()
	if p.Date == "" {
		p.Date = s.now().Format(invoice.DateFormat)
	}
	if p.Name == "" {
		if p.Vendor != "" {
			p.Name = p.Vendor + " - " + p.Date
		} else {
			p.Name = "Purchase - " + p.Date
		}
	}
	return p
}

func newItems(items []model.Item) ([]model.Item, error) {
	created := make([]model.Item, len(items))
	for i, it := range items {
		if it.Name == "" {
			return nil, fmt.Errorf("item %d: name is required", i+1)
		}
		if it.Status == "" {
			it.Status = model.StatusUnlisted
		}
		if !it.Status.Valid() {
			return nil, fmt.Errorf("item %d: invalid status %q", i+1, it.Status)
		}
		it.ID = id.New()
		it.ComputeNetProfit()
		created[i] = it
	}
	return created, nil
}

func findPurchase(purchases []model.Purchase, ref string) (int, error) {
	ids := make([]string, len(purchases))
	for i, p := range purchases {
		ids[i] = p.ID
	}
	return indexOf(ids, ref, "purchase")
}

func findItem(items []model.Item, ref string) (int, error) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return indexOf(ids, ref, "item")
}

func indexOf(ids []string, ref, kind string) (int, error) {
	match, err := id.Resolve(ids, ref)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", kind, err)
	}
	for i, v := range ids {
		if v == match {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s %q: %w", kind, ref, ErrNotFound)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (s *Service) path(name string) string {
	return filepath.Join(s.root, DataDir, name)
}

func (s *Service) readPurchases() ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := s.readFile(purchasesFile, func(r io.Reader) error {
		var err error
		purchases, err = ReadPurchases(r)
		return err
	})
	return purchases, err
}

func (s *Service) readItems() ([]model.Item, error) {
	var items []model.Item
	err := s.readFile(itemsFile, func(r io.Reader) error {
		var err error
		items, err = ReadItems(r)
		return err
	})
	return items, err
}

func (s *Service) writePurchases(purchases []model.Purchase) error {
	return s.writeFile(purchasesFile, func(w io.Writer) error {
		return WritePurchases(w, purchases)
	})
}

func (s *Service) writeItems(items []model.Item) error {
	return s.writeFile(itemsFile, func(w io.Writer) error {
		return WriteItems(w, items)
	})
}

// readFile opens a data file; a missing file reads as empty.
func (s *Service) readFile(name string, read func(io.Reader) error) error {
	path := s.path(name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := read(f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// writeFile replaces a data file through a temp file and rename.
func (s *Service) writeFile(name string, write func(io.Writer) error) error {
	dir := filepath.Join(s.root, DataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
