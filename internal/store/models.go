package store

import "time"

// Customer is a customer record. The code is minted once from the customer
// sequence and never changes afterwards.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Code      string    `gorm:"uniqueIndex;size:16;not null" json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Customer) TableName() string { return "customers" }

// SequenceCounter stores the last value for named monotonic counters.
type SequenceCounter struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	Seq       int64     `gorm:"not null;default:0" json:"seq"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (SequenceCounter) TableName() string { return "sequence_counters" }

// Image groups one or more stored filenames under a customer/folder.
// The record exists only while it has at least one filename.
type Image struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Folder     string          `gorm:"size:255;not null;default:general;index:idx_images_customer_folder,priority:2" json:"folder"`
	CustomerID *uint           `gorm:"index:idx_images_customer_folder,priority:1" json:"customerId"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Filenames  []ImageFilename `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (Image) TableName() string { return "images" }

// Names returns the record's filenames in submission order.
func (i *Image) Names() []string {
	names := make([]string, 0, len(i.Filenames))
	for _, f := range i.Filenames {
		names = append(names, f.Filename)
	}
	return names
}

// ImageFilename is one stored filename of an image record. The unique index on
// Filename doubles as the filename-to-record lookup index, so FindByFilename
// never scans, and it is maintained in the same transaction as every names
// mutation.
type ImageFilename struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ImageID   uint      `gorm:"not null;index" json:"imageId"`
	Position  int       `gorm:"not null" json:"position"`
	Filename  string    `gorm:"uniqueIndex;size:255;not null" json:"filename"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ImageFilename) TableName() string { return "image_filenames" }

// Models lists every model of this package for automigration.
func Models() []interface{} {
	return []interface{}{
		&Customer{},
		&SequenceCounter{},
		&Image{},
		&ImageFilename{},
	}
}
