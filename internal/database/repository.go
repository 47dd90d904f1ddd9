package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ventureforge/planscope/internal/errors"
	"github.com/ventureforge/planscope/internal/evaluation"
	"github.com/ventureforge/planscope/internal/plan"
)

// Repository provides data access for plans and their evaluations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SavePlan stores a plan and assigns its creation-order sequence number
func (r *Repository) SavePlan(p *plan.BusinessPlan) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	stmt, err := r.db.GetPreparedStatement("insert_plan")
	if err != nil {
		return err
	}

	result, err := stmt.Exec(p.ID, p.Title, string(p.Category), string(payload), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read plan sequence: %w", err)
	}
	p.Seq = seq

	return nil
}

// GetPlan retrieves a plan by its ID
func (r *Repository) GetPlan(id string) (*plan.BusinessPlan, error) {
	stmt, err := r.db.GetPreparedStatement("get_plan")
	if err != nil {
		return nil, err
	}

	var seq int64
	var payload string
	err = stmt.QueryRow(id).Scan(&seq, &payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("plan", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return unmarshalPlan(seq, payload)
}

// ListPlans returns every stored plan in creation order
func (r *Repository) ListPlans() ([]*plan.BusinessPlan, error) {
	rows, err := r.db.Query(`SELECT seq, payload FROM plans ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*plan.BusinessPlan
	for rows.Next() {
		var seq int64
		var payload string
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}

		p, err := unmarshalPlan(seq, payload)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// CountPlans returns the number of stored plans
func (r *Repository) CountPlans() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM plans`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count plans: %w", err)
	}
	return count, nil
}

// SaveEvaluation upserts the evaluation for (plan, rubric version)
func (r *Repository) SaveEvaluation(result *evaluation.EvaluationResult) error {
	weights, err := json.Marshal(result.Weights)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	findings, err := json.Marshal(result.Findings)
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}
	criteria, err := json.Marshal(result.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	stmt, err := r.db.GetPreparedStatement("insert_evaluation")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(
		uuid.New().String(),
		result.PlanID,
		result.RubricVersion,
		result.Feasibility,
		result.Profitability,
		result.Innovation,
		result.Composite,
		string(weights),
		string(findings),
		string(criteria),
		result.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert evaluation: %w", err)
	}

	return nil
}

// GetEvaluation retrieves the evaluation of one plan under a rubric version
func (r *Repository) GetEvaluation(planID string, rubricVersion int) (*evaluation.EvaluationResult, error) {
	stmt, err := r.db.GetPreparedStatement("get_evaluation")
	if err != nil {
		return nil, err
	}

	result := evaluation.EvaluationResult{
		PlanID:        planID,
		RubricVersion: rubricVersion,
	}
	var id, weights string
	var findings, criteria sql.NullString
	var evaluatedAt time.Time

	err = stmt.QueryRow(planID, rubricVersion).Scan(
		&id,
		&result.Feasibility,
		&result.Profitability,
		&result.Innovation,
		&result.Composite,
		&weights,
		&findings,
		&criteria,
		&evaluatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("evaluation", planID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	result.EvaluatedAt = evaluatedAt
	if err := unmarshalEvaluationJSON(&result, weights, findings, criteria); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListEvaluated returns every plan paired with its evaluation under the
// given rubric version, in creation order. Plans without an evaluation for
// that version are omitted.
func (r *Repository) ListEvaluated(rubricVersion int) ([]evaluation.Evaluated, error) {
	rows, err := r.db.Query(`
		SELECT p.seq, p.payload,
			e.feasibility, e.profitability, e.innovation, e.composite,
			e.weights, e.findings, e.criteria, e.evaluated_at
		FROM plans p
		JOIN evaluations e ON e.plan_id = p.id
		WHERE e.rubric_version = ?
		ORDER BY p.seq ASC`, rubricVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluated plans: %w", err)
	}
	defer rows.Close()

	var population []evaluation.Evaluated
	for rows.Next() {
		var seq int64
		var payload, weights string
		var findings, criteria sql.NullString
		result := evaluation.EvaluationResult{RubricVersion: rubricVersion}

		if err := rows.Scan(
			&seq, &payload,
			&result.Feasibility, &result.Profitability, &result.Innovation, &result.Composite,
			&weights, &findings, &criteria, &result.EvaluatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan evaluated row: %w", err)
		}

		p, err := unmarshalPlan(seq, payload)
		if err != nil {
			return nil, err
		}
		result.PlanID = p.ID

		if err := unmarshalEvaluationJSON(&result, weights, findings, criteria); err != nil {
			return nil, err
		}

		population = append(population, evaluation.Evaluated{Plan: p, Result: result})
	}

	return population, rows.Err()
}

func unmarshalPlan(seq int64, payload string) (*plan.BusinessPlan, error) {
	var p plan.BusinessPlan
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan payload: %w", err)
	}
	// The column is authoritative; payloads written before the first save
	// carry a zero seq.
	p.Seq = seq
	return &p, nil
}

func unmarshalEvaluationJSON(result *evaluation.EvaluationResult, weights string, findings, criteria sql.NullString) error {
	if err := json.Unmarshal([]byte(weights), &result.Weights); err != nil {
		return fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	if findings.Valid && findings.String != "" && findings.String != "null" {
		if err := json.Unmarshal([]byte(findings.String), &result.Findings); err != nil {
			return fmt.Errorf("failed to unmarshal findings: %w", err)
		}
	}
	if criteria.Valid && criteria.String != "" && criteria.String != "null" {
		if err := json.Unmarshal([]byte(criteria.String), &result.Criteria); err != nil {
			return fmt.Errorf("failed to unmarshal criteria: %w", err)
		}
	}
	return nil
}
