package catalog

import "strconv"

// Reference ranges are canine baseline values; species-specific adjustment is
// left to the interpretation prompt.
var hemogramParams = []ParameterDefinition{
	{ID: "erythrocytes", Label: "Erythrocytes", Unit: "x10^6/uL", RefMin: ptr(5.5), RefMax: ptr(8.5)},
	{ID: "hemoglobin", Label: "Hemoglobin", Unit: "g/dL", RefMin: ptr(12.0), RefMax: ptr(18.0)},
	{ID: "hematocrit", Label: "Hematocrit", Unit: "%", RefMin: ptr(37.0), RefMax: ptr(55.0)},
	{ID: "mcv", Label: "MCV", Unit: "fL", RefMin: ptr(60.0), RefMax: ptr(77.0)},
	{ID: "mchc", Label: "MCHC", Unit: "g/dL", RefMin: ptr(32.0), RefMax: ptr(36.0)},
	{ID: "leukocytes", Label: "Leukocytes", Unit: "x10^3/uL", RefMin: ptr(6.0), RefMax: ptr(17.0)},
	{ID: "segmented_neutrophils", Label: "Segmented neutrophils", Unit: "x10^3/uL", RefMin: ptr(3.0), RefMax: ptr(11.5)},
	{ID: "band_neutrophils", Label: "Band neutrophils", Unit: "x10^3/uL", RefMin: ptr(0.0), RefMax: ptr(0.3)},
	{ID: "lymphocytes", Label: "Lymphocytes", Unit: "x10^3/uL", RefMin: ptr(1.0), RefMax: ptr(4.8)},
	{ID: "monocytes", Label: "Monocytes", Unit: "x10^3/uL", RefMin: ptr(0.15), RefMax: ptr(1.35)},
	{ID: "eosinophils", Label: "Eosinophils", Unit: "x10^3/uL", RefMin: ptr(0.1), RefMax: ptr(1.25)},
	{ID: "platelets", Label: "Platelets", Unit: "x10^3/uL", RefMin: ptr(200.0), RefMax: ptr(500.0)},
	{ID: "total_plasma_protein", Label: "Total plasma protein", Unit: "g/dL", RefMin: ptr(6.0), RefMax: ptr(8.0)},
}

var biochemistryParams = []ParameterDefinition{
	{ID: "glucose", Label: "Glucose", Unit: "mg/dL", RefMin: ptr(70.0), RefMax: ptr(120.0)},
	{ID: "urea", Label: "Urea", Unit: "mg/dL", RefMin: ptr(20.0), RefMax: ptr(56.0)},
	{ID: "creatinine", Label: "Creatinine", Unit: "mg/dL", RefMin: ptr(0.5), RefMax: ptr(1.5)},
	{ID: "alt", Label: "ALT", Unit: "U/L", RefMin: ptr(10.0), RefMax: ptr(88.0)},
	{ID: "ast", Label: "AST", Unit: "U/L", RefMin: ptr(10.0), RefMax: ptr(50.0)},
	{ID: "alkaline_phosphatase", Label: "Alkaline phosphatase", Unit: "U/L", RefMin: ptr(20.0), RefMax: ptr(150.0)},
	{ID: "ggt", Label: "GGT", Unit: "U/L", RefMin: ptr(0.0), RefMax: ptr(10.0)},
	{ID: "total_protein", Label: "Total protein", Unit: "g/dL", RefMin: ptr(5.4), RefMax: ptr(7.5)},
	{ID: "albumin", Label: "Albumin", Unit: "g/dL", RefMin: ptr(2.3), RefMax: ptr(3.8)},
	{ID: "globulin", Label: "Globulin", Unit: "g/dL", RefMin: ptr(2.7), RefMax: ptr(4.4)},
	{ID: "total_bilirubin", Label: "Total bilirubin", Unit: "mg/dL", RefMin: ptr(0.1), RefMax: ptr(0.5)},
	{ID: "cholesterol", Label: "Cholesterol", Unit: "mg/dL", RefMin: ptr(135.0), RefMax: ptr(270.0)},
}

var urinalysisParams = []ParameterDefinition{
	{ID: "color", Label: "Color", RefText: "Yellow"},
	{ID: "appearance", Label: "Appearance", RefText: "Clear"},
	{ID: "specific_gravity", Label: "Specific gravity", RefMin: ptr(1.015), RefMax: ptr(1.045)},
	{ID: "ph", Label: "pH", RefMin: ptr(5.5), RefMax: ptr(7.0)},
	{ID: "protein", Label: "Protein", RefText: "Negative to trace"},
	{ID: "glucose", Label: "Glucose", RefText: "Negative"},
	{ID: "ketones", Label: "Ketones", RefText: "Negative"},
	{ID: "bilirubin", Label: "Bilirubin", RefText: "Negative to trace"},
	{ID: "blood", Label: "Blood", RefText: "Negative"},
	{ID: "sediment", Label: "Sediment", RefText: "Rare cells, no casts"},
}

func ptr(f float64) *float64 { return &f }

func formatRange(min, max float64) string {
	return strconv.FormatFloat(min, 'f', -1, 64) + " - " + strconv.FormatFloat(max, 'f', -1, 64)
}
