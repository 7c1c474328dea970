package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/centimehq/centime/internal/apierror"
	"github.com/centimehq/centime/model"
)

const institutionsCacheKey = "institutions:all"

// CreateInstitution creates an institution together with its pattern rules in
// one database transaction.
func (d Datasource) CreateInstitution(ctx context.Context, institution model.Institution) (model.Institution, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return model.Institution{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	institution.CreatedAt = time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO institutions (institution_id, name, sender_identity, created_at)
		VALUES ($1, $2, $3, $4)
	`, institution.InstitutionID, institution.Name, institution.SenderIdentity, institution.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Institution{}, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Institution with name '%s' already exists", institution.Name), err)
		}
		return model.Institution{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create institution", err)
	}

	if err := insertRules(ctx, tx, institution.InstitutionID, institution.Rules); err != nil {
		return model.Institution{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Institution{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	d.invalidateInstitutionsCache(ctx)
	return institution, nil
}

// UpsertInstitution creates an institution or, when one with the same name
// already exists, replaces its sender identity and rule set. Used by seeding
// so restarts never duplicate the built-in templates.
func (d Datasource) UpsertInstitution(ctx context.Context, institution model.Institution) (model.Institution, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return model.Institution{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO institutions (institution_id, name, sender_identity, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (name) DO UPDATE SET sender_identity = EXCLUDED.sender_identity
		RETURNING institution_id, created_at
	`, institution.InstitutionID, institution.Name, institution.SenderIdentity)
	if err := row.Scan(&institution.InstitutionID, &institution.CreatedAt); err != nil {
		return model.Institution{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to upsert institution", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM pattern_rules WHERE institution_id = $1`, institution.InstitutionID)
	if err != nil {
		return model.Institution{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to replace pattern rules", err)
	}

	if err := insertRules(ctx, tx, institution.InstitutionID, institution.Rules); err != nil {
		return model.Institution{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Institution{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	d.invalidateInstitutionsCache(ctx)
	return institution, nil
}

func (d Datasource) GetInstitution(ctx context.Context, id string) (*model.Institution, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT institution_id, name, sender_identity, created_at
		FROM institutions
		WHERE institution_id = $1
	`, id)

	institution := &model.Institution{}
	err := row.Scan(&institution.InstitutionID, &institution.Name, &institution.SenderIdentity, &institution.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Institution with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve institution", err)
	}

	rules, err := d.rulesByInstitution(ctx)
	if err != nil {
		return nil, err
	}
	institution.Rules = rules[institution.InstitutionID]

	return institution, nil
}

// GetAllInstitutions returns every institution in creation order with its
// rules in position order. Ingestion calls this for every message, so the
// result is cached; writes invalidate the key.
func (d Datasource) GetAllInstitutions(ctx context.Context) ([]model.Institution, error) {
	var institutions []model.Institution
	if d.Cache != nil {
		err := d.Cache.Get(ctx, institutionsCacheKey, &institutions)
		if err == nil && len(institutions) > 0 {
			return institutions, nil
		}
	}

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT institution_id, name, sender_identity, created_at
		FROM institutions
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve institutions", err)
	}
	defer rows.Close()

	institutions = []model.Institution{}
	for rows.Next() {
		institution := model.Institution{}
		err = rows.Scan(&institution.InstitutionID, &institution.Name, &institution.SenderIdentity, &institution.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan institution data", err)
		}
		institutions = append(institutions, institution)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over institutions", err)
	}

	rulesByID, err := d.rulesByInstitution(ctx)
	if err != nil {
		return nil, err
	}
	for i := range institutions {
		institutions[i].Rules = rulesByID[institutions[i].InstitutionID]
	}

	if d.Cache != nil && len(institutions) > 0 {
		if err := d.Cache.Set(ctx, institutionsCacheKey, institutions, 5*time.Minute); err != nil {
			log.Printf("Failed to cache institutions: %v", err)
		}
	}

	return institutions, nil
}

func (d Datasource) rulesByInstitution(ctx context.Context) (map[string][]model.PatternRule, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT rule_id, institution_id, kind, match_expression, COALESCE(date_layout, ''), position, created_at
		FROM pattern_rules
		ORDER BY institution_id ASC, position ASC, id ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve pattern rules", err)
	}
	defer rows.Close()

	rulesByID := make(map[string][]model.PatternRule)
	for rows.Next() {
		rule := model.PatternRule{}
		err = rows.Scan(&rule.RuleID, &rule.InstitutionID, &rule.Kind, &rule.Expression, &rule.DateLayout, &rule.Position, &rule.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan pattern rule data", err)
		}
		rulesByID[rule.InstitutionID] = append(rulesByID[rule.InstitutionID], rule)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over pattern rules", err)
	}

	return rulesByID, nil
}

func insertRules(ctx context.Context, tx *sql.Tx, institutionID string, rules []model.PatternRule) error {
	for i, rule := range rules {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pattern_rules (rule_id, institution_id, kind, match_expression, date_layout, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
		`, rule.RuleID, institutionID, rule.Kind, rule.Expression, nullString(rule.DateLayout), i)
		if err != nil {
			return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create pattern rule", err)
		}
	}
	return nil
}

func (d Datasource) invalidateInstitutionsCache(ctx context.Context) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Delete(ctx, institutionsCacheKey); err != nil {
		log.Printf("Failed to invalidate institutions cache: %v", err)
	}
}
