package snapshot

// StagedRange is one row of the staged provider snapshot. The staging
// table is ground truth for a reconciliation run and is replaced
// wholesale by whichever job loads it; the reconciler only reads it.
type StagedRange struct {
	Component string `json:"component" gorm:"primaryKey"`
	Region    string `json:"region" gorm:"primaryKey"`
	Address   string `json:"address" gorm:"primaryKey"`
	StartIP   string `json:"start_ip"`
	EndIP     string `json:"end_ip"`
}

func (s StagedRange) TableName() string {
	return "public.staged_ip_ranges"
}
