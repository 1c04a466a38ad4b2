package notify

import (
	"fmt"
	"strconv"
	"strings"
)

// MessageParams fill the customer SMS template.
type MessageParams struct {
	ShopName     string
	CustomerName string
	VehicleYear  int
	VehicleMake  string
	VehicleModel string
	// UrgencyLevel is the inspection's aggregate level.
	UrgencyLevel string
	Link         string
}

var summaries = map[string]string{
	"critical": "Some items need immediate attention. Please call us before driving.",
	"high":     "A few items need attention soon.",
	"normal":   "A few items should be checked at your next visit.",
	"low":      "Everything looks good.",
}

// BuildMessage renders the SMS sent when an inspection report is ready.
func BuildMessage(p MessageParams) string {
	name := strings.TrimSpace(p.CustomerName)
	if name == "" {
		name = "there"
	} else if first, _, ok := strings.Cut(name, " "); ok {
		name = first
	}

	var vehicle []string
	if p.VehicleYear > 0 {
		vehicle = append(vehicle, strconv.Itoa(p.VehicleYear))
	}
	for _, part := range []string{p.VehicleMake, p.VehicleModel} {
		if s := strings.TrimSpace(part); s != "" {
			vehicle = append(vehicle, s)
		}
	}
	vehicleText := strings.Join(vehicle, " ")
	if vehicleText == "" {
		vehicleText = "vehicle"
	}

	summary, ok := summaries[p.UrgencyLevel]
	if !ok {
		summary = summaries["low"]
	}

	shop := strings.TrimSpace(p.ShopName)
	if shop == "" {
		shop = "Your shop"
	}
	return fmt.Sprintf("%s: Hi %s, the inspection for your %s is ready. %s View: %s",
		shop, name, vehicleText, summary, p.Link)
}
