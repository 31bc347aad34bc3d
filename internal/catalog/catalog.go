// Package catalog holds the static medicine reference data and the advisor
// keyword table. Both are loaded once and never mutated.
package catalog

import (
	"fmt"
	"strings"

	"medicine-service/internal/models"
)

// Catalog is an immutable, validated set of medicines in insertion order
type Catalog struct {
	medicines []models.Medicine
	byID      map[string]int
	advisor   []models.AdvisorEntry
}

// New validates the medicines and advisor entries and builds a catalog
func New(medicines []models.Medicine, advisor []models.AdvisorEntry) (*Catalog, error) {
	c := &Catalog{
		medicines: make([]models.Medicine, 0, len(medicines)),
		byID:      make(map[string]int, len(medicines)),
		advisor:   make([]models.AdvisorEntry, 0, len(advisor)),
	}

	for _, m := range medicines {
		if err := validateMedicine(m); err != nil {
			return nil, err
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate medicine id %q", m.ID)
		}
		c.byID[m.ID] = len(c.medicines)
		c.medicines = append(c.medicines, cloneMedicine(m))
	}

	for _, e := range advisor {
		if e.Keyword == "" {
			return nil, fmt.Errorf("advisor entry with empty keyword")
		}
		// queries are lowercased before matching
		if e.Keyword != strings.ToLower(e.Keyword) {
			return nil, fmt.Errorf("advisor keyword %q must be lowercase", e.Keyword)
		}
		c.advisor = append(c.advisor, models.AdvisorEntry{
			Keyword:              e.Keyword,
			Response:             e.Response,
			RecommendedMedicines: append([]string(nil), e.RecommendedMedicines...),
		})
	}

	return c, nil
}

// Default returns the reference catalog
func Default() *Catalog {
	c, err := New(referenceMedicines(), referenceAdvisor())
	if err != nil {
		panic(fmt.Sprintf("reference catalog is invalid: %v", err))
	}
	return c
}

// Medicines returns a copy of all medicines in insertion order
func (c *Catalog) Medicines() []models.Medicine {
	out := make([]models.Medicine, len(c.medicines))
	for i, m := range c.medicines {
		out[i] = cloneMedicine(m)
	}
	return out
}

// Len returns the number of medicines
func (c *Catalog) Len() int {
	return len(c.medicines)
}

// Get looks up a medicine by id
func (c *Catalog) Get(id string) (models.Medicine, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Medicine{}, false
	}
	return cloneMedicine(c.medicines[i]), true
}

// Stock returns a pharmacy's stock of a medicine
func (c *Catalog) Stock(medicineID, pharmacyID string) (models.PharmacyStock, bool) {
	i, ok := c.byID[medicineID]
	if !ok {
		return models.PharmacyStock{}, false
	}
	for _, p := range c.medicines[i].Pharmacies {
		if p.ID == pharmacyID {
			return p, true
		}
	}
	return models.PharmacyStock{}, false
}

// HasPharmacy reports whether any medicine is stocked at the pharmacy
func (c *Catalog) HasPharmacy(pharmacyID string) bool {
	for _, m := range c.medicines {
		for _, p := range m.Pharmacies {
			if p.ID == pharmacyID {
				return true
			}
		}
	}
	return false
}

// AdvisorEntries returns the advisor table in match order
func (c *Catalog) AdvisorEntries() []models.AdvisorEntry {
	out := make([]models.AdvisorEntry, len(c.advisor))
	copy(out, c.advisor)
	return out
}

func validateMedicine(m models.Medicine) error {
	if m.ID == "" {
		return fmt.Errorf("medicine %q has empty id", m.Name)
	}

	switch m.StockLevel {
	case models.StockLevelHigh, models.StockLevelMedium, models.StockLevelLow:
	default:
		return fmt.Errorf("medicine %s: invalid stock level %q", m.ID, m.StockLevel)
	}

	anyStock := false
	for _, p := range m.Pharmacies {
		if p.StockCount < 0 {
			return fmt.Errorf("medicine %s: pharmacy %s has negative stock", m.ID, p.ID)
		}
		if p.Rating < 0 || p.Rating > 5 {
			return fmt.Errorf("medicine %s: pharmacy %s rating %.1f out of range", m.ID, p.ID, p.Rating)
		}
		if p.StockCount > 0 {
			anyStock = true
		}
	}

	if m.InStock != anyStock {
		return fmt.Errorf("medicine %s: inStock=%t disagrees with pharmacy stock", m.ID, m.InStock)
	}

	return nil
}

func cloneMedicine(m models.Medicine) models.Medicine {
	m.Pharmacies = append(make([]models.PharmacyStock, 0, len(m.Pharmacies)), m.Pharmacies...)
	return m
}
