package models

import "time"

// CourseLevel is the advertised difficulty of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "BEGINNER"
	LevelIntermediate CourseLevel = "INTERMEDIATE"
	LevelAdvanced     CourseLevel = "ADVANCED"
)

// Course is catalog data with an independent lifecycle, created and edited
// only by admins. VendorID is null for platform-wide courses.
type Course struct {
	ID            string      `db:"id" json:"id"`
	Title         string      `db:"title" json:"title"`
	Description   string      `db:"description" json:"description,omitempty"`
	Category      string      `db:"category" json:"category"`
	Level         CourseLevel `db:"level" json:"level"`
	Price         float64     `db:"price" json:"price"`
	DiscountPrice *float64    `db:"discount_price" json:"discount_price,omitempty"`
	Duration      string      `db:"duration" json:"duration,omitempty"`
	MaxStudents   int         `db:"max_students" json:"max_students"`
	StartDate     *time.Time  `db:"start_date" json:"start_date,omitempty"`
	EndDate       *time.Time  `db:"end_date" json:"end_date,omitempty"`
	VendorID      *string     `db:"vendor_id" json:"vendor_id,omitempty"`
	Active        bool        `db:"is_active" json:"is_active"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// EffectivePrice is the amount charged at enrollment time: the discount
// price when one is set, the list price otherwise. A zero discount means
// no discount, not a free course.
func (c *Course) EffectivePrice() float64 {
	if c.DiscountPrice != nil && *c.DiscountPrice > 0 {
		return *c.DiscountPrice
	}
	return c.Price
}
