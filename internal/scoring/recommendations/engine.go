package recommendations

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"inspection-backend/internal/scoring"
)

// Generate builds the recommendation for one inspection item. It is total:
// unknown item types use generic templates, nil measurements or vehicle info
// simply produce fewer notes.
func Generate(in Input) Result {
	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	shop := DefaultShopConfig()
	if in.Shop != nil {
		shop = *in.Shop
	}

	itemType := scoring.NormalizeItemType(in.ItemType)
	condition, _ := scoring.ParseCondition(string(in.Condition))
	profile, known := itemProfiles[itemType]

	result := Result{
		Primary:    buildPrimary(itemType, condition, profile, known, shop),
		Secondary:  secondaryNotes(in.Measurements),
		Preventive: []PreventiveItem{},
	}

	if in.Vehicle != nil {
		if in.Vehicle.Mileage != nil && *in.Vehicle.Mileage >= 0 {
			result.Preventive = preventiveDue(itemType, *in.Vehicle.Mileage)
		}
		next := nextServiceDate(*in.Vehicle, asOf)
		result.NextServiceDate = &next
	}
	return result
}

func buildPrimary(itemType string, condition scoring.Condition, profile itemProfile, known bool, shop ShopConfig) Primary {
	tpl := templateFor(condition, profile.repairable)
	name := scoring.DisplayItemType(itemType)

	benefits := defaultBenefits
	if known && len(profile.benefits) > 0 {
		benefits = profile.benefits
	}
	primary := Primary{
		Type:        tpl.kind,
		Urgency:     tpl.urgency,
		Title:       fmt.Sprintf(tpl.title, name),
		Description: fmt.Sprintf(tpl.desc, name),
		Benefits:    append([]string{}, benefits...),
	}
	if shop.IncludeTimeframes {
		primary.Timeframe = tpl.timeframe
	}
	if shop.IncludePartNumbers && len(profile.partNumbers) > 0 {
		primary.PartNumbers = append([]string{}, profile.partNumbers...)
	}
	if shop.IncludeCostEstimates {
		primary.EstimatedCost = estimateCost(profile, known, shop)
	}
	return primary
}

func estimateCost(profile itemProfile, known bool, shop ShopConfig) *Cost {
	parts := defaultPartsCost
	hours := defaultLaborHours
	if known {
		parts = profile.partsCost
		hours = profile.laborHours
	}
	rate := shop.LaborRate
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		rate = DefaultLaborRate
	}
	markup := shop.MarkupPercent
	if markup < 0 || math.IsNaN(markup) || math.IsInf(markup, 0) {
		markup = 0
	}
	cost := priceItem(parts, hours, rate, markup)
	if !cost.finite() {
		cost = priceItem(parts, hours, DefaultLaborRate, 0)
	}
	return &cost
}

func priceItem(parts, hours, rate, markup float64) Cost {
	factor := 1 + markup/100
	cost := Cost{
		Parts: roundCents(parts * factor),
		Labor: roundCents(rate * hours * factor),
	}
	cost.Total = cost.Parts + cost.Labor
	return cost
}

func (c Cost) finite() bool {
	for _, v := range []float64{c.Parts, c.Labor, c.Total} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func secondaryNotes(m scoring.Measurements) []string {
	notes := []string{}
	for _, note := range measurementNotes {
		v, ok := m.Float(note.key)
		if !ok {
			continue
		}
		notes = append(notes, note.format(v))
	}
	return notes
}

func preventiveDue(itemType string, mileage int) []PreventiveItem {
	out := []PreventiveItem{}
	for _, iv := range maintenanceIntervals[itemType] {
		if iv.miles <= 0 || mileage*10 < iv.miles*9 {
			continue
		}
		rem := mileage % iv.miles
		switch {
		case rem*10 >= iv.miles*9:
			out = append(out, PreventiveItem{Service: iv.service, IntervalMiles: iv.miles, DueAtMileage: mileage - rem + iv.miles})
		case rem*10 <= iv.miles:
			out = append(out, PreventiveItem{Service: iv.service, IntervalMiles: iv.miles, DueAtMileage: mileage - rem})
		}
	}
	return out
}

func nextServiceDate(v VehicleInfo, asOf time.Time) time.Time {
	limit := maxServiceMonths
	if v.Year > 0 && asOf.Year()-v.Year > oldVehicleYears {
		limit = oldVehicleMonths
	}

	months := limit
	if v.Mileage != nil && *v.Mileage >= 0 {
		miles := serviceBoundaryMiles - *v.Mileage%serviceBoundaryMiles
		months = (miles + milesPerMonth - 1) / milesPerMonth
		if months < 1 {
			months = 1
		}
		if months > limit {
			months = limit
		}
	}

	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, months, 0)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func trim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
