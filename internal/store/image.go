package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixvault/pixvault/internal/postgres"
	"gorm.io/gorm"
)

// DefaultFolder is assigned when a record is created without a folder.
const DefaultFolder = "general"

// ImageStore persists image records and their ordered filename rows.
// Every mutation of a record's names runs in one transaction together with
// the filename index rows, so the two can never drift apart.
type ImageStore struct {
	db *postgres.Postgres
}

// NewImageStore returns an image store backed by the given database.
func NewImageStore(db *postgres.Postgres) *ImageStore {
	return &ImageStore{db: db}
}

// orderedFilenames preloads the filename rows in submission order.
func orderedFilenames(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreateRecord creates an image record holding the given filenames, in order.
// The folder defaults to "general" when empty.
func (s *ImageStore) CreateRecord(ctx context.Context, names []string, folder string, customerID *uint) (*Image, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: filenames must be a non-empty list", ErrValidation)
	}
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: filenames must not be empty", ErrValidation)
		}
	}
	if folder == "" {
		folder = DefaultFolder
	}

	image := &Image{
		Folder:     folder,
		CustomerID: customerID,
	}
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(image).Error; err != nil {
			return err
		}
		rows := make([]ImageFilename, 0, len(names))
		for i, name := range names {
			rows = append(rows, ImageFilename{
				ImageID:  image.ID,
				Position: i,
				Filename: name,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, image.ID)
}

// AppendFilenames adds filenames to an existing record, preserving order.
// Sequential appends yield the same final order as one combined append.
func (s *ImageStore) AppendFilenames(ctx context.Context, imageID uint, names []string) (*Image, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: filenames must be a non-empty list", ErrValidation)
	}

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var image Image
		if err := tx.First(&image, "id = ?", imageID).Error; err != nil {
			return err
		}

		var next int
		row := tx.Model(&ImageFilename{}).
			Where("image_id = ?", imageID).
			Select("COALESCE(MAX(position)+1, 0)")
		if err := row.Scan(&next).Error; err != nil {
			return err
		}

		rows := make([]ImageFilename, 0, len(names))
		for i, name := range names {
			rows = append(rows, ImageFilename{
				ImageID:  imageID,
				Position: next + i,
				Filename: name,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, imageID)
}

// Get loads an image record with its customer and ordered filenames.
func (s *ImageStore) Get(ctx context.Context, id uint) (*Image, error) {
	var image Image
	err := s.db.DB().WithContext(ctx).
		Preload("Customer").
		Preload("Filenames", orderedFilenames).
		First(&image, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &image, nil
}

// FindByFilename returns the record owning the given filename, or nil when no
// record contains it. By construction a filename belongs to at most one record.
func (s *ImageStore) FindByFilename(ctx context.Context, filename string) (*Image, error) {
	var row ImageFilename
	err := s.db.First(ctx, &row, "filename = ?", filename)
	if errors.Is(translate(err), ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, row.ImageID)
}

// RemoveFilename removes the filename from its owning record. When it is the
// record's last name the whole record is deleted and the deleted snapshot is
// returned; otherwise the updated record is returned. A filename no record
// contains yields (nil, nil), which is not an error.
func (s *ImageStore) RemoveFilename(ctx context.Context, filename string) (*Image, error) {
	image, err := s.FindByFilename(ctx, filename)
	if err != nil || image == nil {
		return image, err
	}

	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if len(image.Filenames) == 1 {
			// Last name: the record goes with it, never left empty.
			if err := tx.Delete(&ImageFilename{}, "image_id = ?", image.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&Image{}, "id = ?", image.ID).Error
		}
		return tx.Delete(&ImageFilename{}, "image_id = ? AND filename = ?", image.ID, filename).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	if len(image.Filenames) == 1 {
		return image, nil // deleted snapshot
	}
	return s.Get(ctx, image.ID)
}

// List returns image records, optionally filtered by customer and folder,
// newest first.
func (s *ImageStore) List(ctx context.Context, customerID *uint, folder string) ([]Image, error) {
	tx := s.db.DB().WithContext(ctx).
		Preload("Customer").
		Preload("Filenames", orderedFilenames).
		Order("created_at DESC")
	if customerID != nil {
		tx = tx.Where("customer_id = ?", *customerID)
	}
	if folder != "" {
		tx = tx.Where("folder = ?", folder)
	}

	var images []Image
	if err := tx.Find(&images).Error; err != nil {
		return nil, translate(err)
	}
	return images, nil
}
