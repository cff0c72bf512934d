package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// BeforeCreate hooks keep id generation in the application so the same models
// work against Postgres and the sqlite test database.

func (b *Brand) BeforeCreate(*gorm.DB) error         { assignID(&b.ID); return nil }
func (p *Phone) BeforeCreate(*gorm.DB) error         { assignID(&p.ID); return nil }
func (s *Specification) BeforeCreate(*gorm.DB) error { assignID(&s.ID); return nil }
func (c *PhoneColor) BeforeCreate(*gorm.DB) error    { assignID(&c.ID); return nil }
func (v *PhoneVariant) BeforeCreate(*gorm.DB) error  { assignID(&v.ID); return nil }
func (g *GalleryImage) BeforeCreate(*gorm.DB) error  { assignID(&g.ID); return nil }
func (r *Review) BeforeCreate(*gorm.DB) error        { assignID(&r.ID); return nil }
func (c *Comment) BeforeCreate(*gorm.DB) error       { assignID(&c.ID); return nil }
func (w *WishlistItem) BeforeCreate(*gorm.DB) error  { assignID(&w.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error          { assignID(&u.ID); return nil }
func (p *PageView) BeforeCreate(*gorm.DB) error      { assignID(&p.ID); return nil }
func (s *SearchLog) BeforeCreate(*gorm.DB) error     { assignID(&s.ID); return nil }

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&Brand{},
		&Phone{},
		&Specification{},
		&PhoneColor{},
		&PhoneVariant{},
		&GalleryImage{},
		&User{},
		&Review{},
		&Comment{},
		&WishlistItem{},
		&PageView{},
		&SearchLog{},
	}
}
