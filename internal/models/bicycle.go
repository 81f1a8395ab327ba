package models

// BicycleType is a catalog category.
type BicycleType struct {
	ID   uint   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"column:name;type:varchar(100);not null"`
}

func (BicycleType) TableName() string { return "bicycletype" }

// Bicycle is a catalog item as stored. IsDiscount is kept as an integer flag
// to match the existing schema.
type Bicycle struct {
	ID            uint     `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string   `gorm:"column:name;type:varchar(255);not null"`
	Description   string   `gorm:"column:description;type:text"`
	BicycleType   *uint    `gorm:"column:bicycleType"`
	IsDiscount    int      `gorm:"column:isDiscount;not null;default:0"`
	NormalPrice   float64  `gorm:"column:normalPrice;not null"`
	DiscountPrice *float64 `gorm:"column:discountPrice"`
	Picture       []byte   `gorm:"column:picture"`
}

func (Bicycle) TableName() string { return "bicycle" }

// BicycleRow is a bicycle left-joined with its type name. TypeName is nil
// when the type id is null or has no matching row.
type BicycleRow struct {
	Bicycle
	TypeName *string `gorm:"column:typeName"`
}

// BicycleTypeRef is the nested type object of a BicycleView.
type BicycleTypeRef struct {
	ID   *uint   `json:"id"`
	Name *string `json:"name"`
}

// BicycleView is the JSON shape served by the catalog endpoints. Picture is
// base64 encoded, or nil when absent.
type BicycleView struct {
	ID            uint           `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Type          BicycleTypeRef `json:"type"`
	IsDiscount    bool           `json:"isDiscount"`
	NormalPrice   float64        `json:"normalPrice"`
	DiscountPrice *float64       `json:"discountPrice"`
	Picture       *string        `json:"picture"`
}
