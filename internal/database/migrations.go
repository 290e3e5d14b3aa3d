package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/bizops-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds composite indexes the list and public views rely on
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   any
		table   string
		name    string
		columns string
	}{
		{&models.Offer{}, "offers", "idx_offers_org_status", "organization_id, status"},
		{&models.Offer{}, "offers", "idx_offers_created_at", "created_at"},
		{&models.OfferService{}, "offer_services", "idx_offer_services_offer_position", "offer_id, position"},
		{&models.OfferAccessLog{}, "offer_access_logs", "idx_offer_access_logs_offer_accessed", "offer_id, accessed_at"},
		{&models.Project{}, "projects", "idx_projects_org_status", "organization_id, status"},
		{&models.Contact{}, "contacts", "idx_contacts_org_last_name", "organization_id, last_name"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			logrus.Debugf("Index %s already exists, skipping", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logrus.Infof("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
