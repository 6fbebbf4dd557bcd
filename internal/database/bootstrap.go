package database

import (
	"fmt"
	"log"

	"github.com/ksc-migration/collections-api/internal/models"
	"github.com/ksc-migration/collections-api/internal/repository"
	"gorm.io/gorm"
)

// Bootstrap seeds reference data and repairs member sequence numbers. The
// dedup sweep must complete before the unique sno index installs, so the
// order here is load-bearing.
func Bootstrap(db *gorm.DB, members repository.MemberRepository) error {
	if err := seedOrganizations(db); err != nil {
		return fmt.Errorf("failed to seed organizations: %w", err)
	}
	if err := seedCollectionCodes(db); err != nil {
		return fmt.Errorf("failed to seed collection codes: %w", err)
	}

	removed, err := members.DeduplicateBySno()
	if err != nil {
		return fmt.Errorf("failed to deduplicate member sequence numbers: %w", err)
	}
	if removed > 0 {
		log.Printf("Removed %d duplicate member sequence numbers", removed)
	}

	if err := ensureSnoIndex(db); err != nil {
		return fmt.Errorf("failed to ensure unique sno index: %w", err)
	}
	return nil
}

// ensureSnoIndex installs the unique index backing sno allocation.
func ensureSnoIndex(db *gorm.DB) error {
	if db.Migrator().HasIndex(&models.Member{}, "idx_members_sno") {
		return nil
	}
	return db.Exec("CREATE UNIQUE INDEX idx_members_sno ON members(sno)").Error
}

var seedOrganizationNames = []string{"Kibada", "KCC", "Mwera", "Goroka"}

func seedOrganizations(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Organization{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, name := range seedOrganizationNames {
		if err := db.Create(&models.Organization{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedCollectionCodes installs the default column labels once. The labels
// describe what each s/c/l column of a collection record holds.
func seedCollectionCodes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.CollectionCode{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	type entry struct {
		column string
		code   string
	}
	entries := []entry{
		{"s1", "Sno"},
		{"s2", "TAREHE"},
		{"s3", "NA."},
		{"s4", "JINA"},
		{"s5", "NAMBARI YA RISITI"},
		{"s6", "SADAKA"},
		{"s7", "JUMLA"},
		{"s8", "JUMLA KANISANI"},
		{"s9", "JUMLA MATOLEO"},
		{"s10", "DETAILS2"},
		{"s11", "MODE"},
		{"s12", "DETAILS"},
		{"s13", "SHUKRANI 100%"},
		{"c1", "ZAKA"},
		{"c2", "SADAKA FIELD"},
		{"c3", "SHUKRANI FIELD"},
		{"c4", "M/STAR"},
		{"c5", "SADAKA YA KAMBI"},
		{"c6", "SADAKA YA 13"},
		{"c7", "RWANDA HOSPITAL"},
		{"c8", "BAJETI YA KANISA"},
		{"c9", "ADRA"},
	}
	for i := 10; i <= 20; i++ {
		entries = append(entries, entry{fmt.Sprintf("c%d", i), "UNUSED"})
	}

	labels := []string{
		"SADAKA KANISANI", "MAJENGO", "MAREJESHO", "SHUKRANI KANISANI", "AMO",
		"VIJANA", "MAKAMBI", "BAJETI YA KANISA", "SS WATOTO", "VITABU", "VITI",
		"WAHITAJI", "GOLI LA KANISA", "KODI YA NYUMBA", "UNUSED", "KING'AMUZI",
		"MCHANGO WA KANISA", "KIBIDULA", "MATENDO YA HURUMA", "KWAYA", "WAJANE",
		"SS WAKUBWA", "MKUTANO WA UFUNUO WA MATUMAINI", "MAHUBIRI",
		"10 DAYS OF PRAYERS", "MEZA YA PAMOJA", "MSAMARIA", "RAMBIRAMBI",
		"KIWANJA CHEKECHEA", "MAJENGO MWERA", "UWAKILI", "FAMILIA",
		"MAWASILIANO", "DORCAS", "UINJILISTI", "SHEMASI", "IBADA CHEKECHEA",
		"MAENDELEO CHEKECHEA", "UINJILIST CHEKECHEA", "SABATO YA WAGENI", "ELIMU",
	}
	for i, label := range labels {
		entries = append(entries, entry{fmt.Sprintf("l%d", i+1), label})
	}

	for _, e := range entries {
		code := e.code
		if err := db.Create(&models.CollectionCode{ColumnName: e.column, Code: &code}).Error; err != nil {
			return err
		}
	}
	return nil
}
