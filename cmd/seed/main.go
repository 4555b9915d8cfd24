package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cloudkitchen/backend/internal/config"
	"github.com/cloudkitchen/backend/internal/db"
	"github.com/cloudkitchen/backend/internal/model"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type seedItem struct {
	Name        string
	Description string
	Price       int64
	Slot        model.MenuSlot
	Remaining   int
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(&model.MenuItem{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var count int64
	if err := gdb.Model(&model.MenuItem{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if count > 0 && os.Getenv("FORCE_SEED") != "true" {
		log.Printf("menu items already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM menu_items").Error; err != nil {
			return fmt.Errorf("clear menu items: %w", err)
		}
		for day := 0; day < 3; day++ {
			serveDate := time.Now().AddDate(0, 0, day).Format("2006-01-02")
			for _, it := range buildSeedItems() {
				item := model.MenuItem{
					Name:        it.Name,
					Description: it.Description,
					Price:       it.Price,
					ServeDate:   serveDate,
					Slot:        it.Slot,
					Remaining:   it.Remaining,
					Available:   true,
				}
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("insert %q: %w", it.Name, err)
				}
			}
		}
		log.Printf("seeded menu for 3 days")
		return nil
	})
}

func buildSeedItems() []seedItem {
	return []seedItem{
		{"Special Veg Thali", "Rice, 2 Rotis, Dal, Mix Veg, Pickle, Salad", 100, model.MenuSlotLunch, 25},
		{"Paneer Butter Masala Combo", "Served with 2 Rotis or Rice", 120, model.MenuSlotLunch, 20},
		{"Aloo Paratha Feast", "2 Aloo Parathas with Curd & Pickle", 70, model.MenuSlotLunch, 30},
		{"Chef's Special Chicken Curry", "Served with Rice or 2 Rotis", 150, model.MenuSlotDinner, 15},
		{"Homestyle Dal Makhani Combo", "Served with 2 Rotis or Rice", 110, model.MenuSlotDinner, 20},
		{"Vegetable Pulao Delight", "Served with Raita & Papad", 90, model.MenuSlotDinner, 25},
	}
}
