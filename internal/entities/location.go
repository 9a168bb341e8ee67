package entities

// Location is one gazetteer entry: a Swedish municipality and the län it belongs to.
type Location struct {
	MunicipalityCode string `gorm:"primaryKey"`
	MunicipalityName string
	LanCode          string `gorm:"index"`
	LanName          string
}
