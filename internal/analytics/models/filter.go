package models

import "time"

// Filter narrows the dataset before aggregation. Zero-value fields mean
// "no restriction", mirroring the dashboard sidebar defaults.
type Filter struct {
	Start    *time.Time
	End      *time.Time
	Channels []Channel
	Statuses []Status
	Sexes    []Sex
	AgeMin   *int
	AgeMax   *int
}

// Match reports whether r passes every restriction in f.
func (f Filter) Match(r AppointmentRecord) bool {
	if f.Start != nil && r.VisitDate.Before(*f.Start) {
		return false
	}
	if f.End != nil && r.VisitDate.After(*f.End) {
		return false
	}
	if len(f.Channels) > 0 && !containsChannel(f.Channels, r.Channel) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, r.Status) {
		return false
	}
	if len(f.Sexes) > 0 && !containsSex(f.Sexes, r.PatientSex) {
		return false
	}
	if f.AgeMin != nil && r.PatientAge < *f.AgeMin {
		return false
	}
	if f.AgeMax != nil && r.PatientAge > *f.AgeMax {
		return false
	}
	return true
}

// Apply returns the records passing the filter, preserving order.
func (f Filter) Apply(records []AppointmentRecord) []AppointmentRecord {
	out := make([]AppointmentRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsChannel(s []Channel, c Channel) bool {
	for _, v := range s {
		if v == c {
			return true
		}
	}
	return false
}

func containsStatus(s []Status, st Status) bool {
	for _, v := range s {
		if v == st {
			return true
		}
	}
	return false
}

func containsSex(s []Sex, x Sex) bool {
	for _, v := range s {
		if v == x {
			return true
		}
	}
	return false
}
