package models

// Stats is an aggregate snapshot of the hub for the admin panel.
type Stats struct {
	Users        int64 `json:"users"`
	Transactions int64 `json:"transactions"`
	Treasury     int64 `json:"treasury"`
	Circulating  int64 `json:"circulating"`
	StorageUnits int64 `json:"storage_units"`
	ActiveSubs   int64 `json:"active_subs"`
}
