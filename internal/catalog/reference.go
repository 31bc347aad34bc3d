package catalog

import "medicine-service/internal/models"

var (
	pharmacieCentrale = models.PharmacyStock{ID: "1", Name: "Pharmacie Centrale", Distance: "0.8 km", Rating: 4.8, Address: "Avenue de la Paix, Goma", Phone: "+243 123 456 789"}
	pharmacieSteAnne  = models.PharmacyStock{ID: "2", Name: "Pharmacie Sainte-Anne", Distance: "1.2 km", Rating: 4.6, Address: "Rue du Marché, Goma", Phone: "+243 987 654 321"}
	pharmacieModerne  = models.PharmacyStock{ID: "3", Name: "Pharmacie Moderne", Distance: "2.1 km", Rating: 4.7, Address: "Boulevard Kanyamuhanga, Goma", Phone: "+243 456 789 123"}
	pharmacieMarche   = models.PharmacyStock{ID: "4", Name: "Pharmacie du Marché", Distance: "1.5 km", Rating: 4.5, Address: "Marché Central, Bukavu", Phone: "+243 321 654 987"}
	pharmacieNouvelle = models.PharmacyStock{ID: "5", Name: "Pharmacie Nouvelle", Distance: "3.2 km", Rating: 4.4, Address: "Quartier Himbi, Bukavu", Phone: "+243 789 123 456"}
)

func stocked(p models.PharmacyStock, count int) models.PharmacyStock {
	p.StockCount = count
	return p
}

func referenceMedicines() []models.Medicine {
	return []models.Medicine{
		{
			ID:           "1",
			Name:         "Paracetamol",
			GenericName:  "Acetaminophen",
			Strength:     "500mg",
			Form:         "Tablets",
			Price:        "2,500 FC",
			InStock:      true,
			StockLevel:   models.StockLevelHigh,
			Description:  "Pain relief and fever reducer",
			Manufacturer: "Pharma Plus",
			ExpiryDate:   "2025-12-31",
			Pharmacies: []models.PharmacyStock{
				stocked(pharmacieCentrale, 45),
				stocked(pharmacieSteAnne, 23),
				stocked(pharmacieModerne, 12),
			},
		},
		{
			ID:           "2",
			Name:         "Amoxicillin",
			GenericName:  "Amoxicillin Trihydrate",
			Strength:     "250mg",
			Form:         "Capsules",
			Price:        "8,000 FC",
			InStock:      true,
			StockLevel:   models.StockLevelMedium,
			Description:  "Antibiotic for bacterial infections",
			Manufacturer: "MediCongo",
			ExpiryDate:   "2025-08-15",
			Pharmacies: []models.PharmacyStock{
				stocked(pharmacieCentrale, 8),
				stocked(pharmacieMarche, 15),
			},
		},
		{
			ID:           "3",
			Name:         "Ibuprofen",
			GenericName:  "Ibuprofen",
			Strength:     "400mg",
			Form:         "Tablets",
			Price:        "3,200 FC",
			InStock:      false,
			StockLevel:   models.StockLevelLow,
			Description:  "Anti-inflammatory and pain relief",
			Manufacturer: "HealthCare Ltd",
			ExpiryDate:   "2024-06-30",
			Pharmacies:   []models.PharmacyStock{},
		},
		{
			ID:           "4",
			Name:         "Aspirin",
			GenericName:  "Acetylsalicylic Acid",
			Strength:     "100mg",
			Form:         "Tablets",
			Price:        "1,800 FC",
			InStock:      true,
			StockLevel:   models.StockLevelHigh,
			Description:  "Blood thinner and pain relief",
			Manufacturer: "Pharma Plus",
			ExpiryDate:   "2026-03-20",
			Pharmacies: []models.PharmacyStock{
				stocked(pharmacieSteAnne, 67),
				stocked(pharmacieNouvelle, 34),
			},
		},
		{
			ID:           "5",
			Name:         "Metformin",
			GenericName:  "Metformin Hydrochloride",
			Strength:     "500mg",
			Form:         "Tablets",
			Price:        "12,500 FC",
			InStock:      true,
			StockLevel:   models.StockLevelMedium,
			Description:  "Diabetes medication",
			Manufacturer: "DiabetCare",
			ExpiryDate:   "2025-11-10",
			Pharmacies: []models.PharmacyStock{
				stocked(pharmacieCentrale, 19),
			},
		},
	}
}

// Table order is match order: the first keyword found in a query wins.
func referenceAdvisor() []models.AdvisorEntry {
	return []models.AdvisorEntry{
		{
			Keyword:              "headache",
			Response:             "For headache relief, I recommend Paracetamol 500mg or Ibuprofen 400mg. Paracetamol is gentler on the stomach and suitable for most people. Take 1-2 tablets every 4-6 hours as needed.",
			RecommendedMedicines: []string{"1", "3"},
		},
		{
			Keyword:              "fever",
			Response:             "For fever reduction, Paracetamol is very effective and safe. Take 500mg every 4-6 hours. Stay hydrated and rest. If fever persists above 39°C or lasts more than 3 days, consult a doctor.",
			RecommendedMedicines: []string{"1"},
		},
		{
			Keyword:              "infection",
			Response:             "For bacterial infections, Amoxicillin is commonly prescribed. However, antibiotics should only be used under medical supervision. Please consult a healthcare provider for proper diagnosis and dosage.",
			RecommendedMedicines: []string{"2"},
		},
		{
			Keyword:              "diabetes",
			Response:             "For Type 2 diabetes management, Metformin is often the first-line treatment. It helps control blood sugar levels. This medication requires regular monitoring and should be prescribed by a doctor.",
			RecommendedMedicines: []string{"5"},
		},
	}
}
