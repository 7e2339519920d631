// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// defaultCategory is one of the starter categories created on an empty
// database.
type defaultCategory struct {
	slug, title, description, icon, color string
	moduleCode                            *string
	sortOrder                             int
}

func module(code string) *string { return &code }

var defaultCategories = []defaultCategory{
	{"getting-started", "Getting Started", "Entry requirements, eligibility, and your first steps to becoming a mortgage broker", "GraduationCap", "bg-emerald-50 text-emerald-600", nil, 1},
	{"licensing-requirements", "Licensing & MFAA", "Credit licence requirements, MFAA and FBAA membership pathways", "Shield", "bg-blue-50 text-blue-600", nil, 2},
	{"course-structure", "Course Structure", "Units, modules, assessments, and completion timeframes", "BookOpen", "bg-purple-50 text-purple-600", nil, 3},
	{"costs-funding", "Costs & Funding", "Course fees, payment plans, and financial assistance options", "DollarSign", "bg-green-50 text-green-600", nil, 4},
	{"credit-assessment", "Credit Assessment", "FNSCRD501 module - responding to client financial situations", "ClipboardCheck", "bg-orange-50 text-orange-600", module("FNSCRD501"), 5},
	{"loan-products", "Loan Products", "FNSFMB512 module - identifying and presenting credit options", "Building2", "bg-indigo-50 text-indigo-600", module("FNSFMB512"), 6},
	{"needs-analysis", "Needs Analysis", "FNSINC511 module - applying appropriate needs analysis to identify credit products", "Search", "bg-cyan-50 text-cyan-600", module("FNSINC511"), 7},
	{"career-pathways", "Career Pathways", "Salary expectations, job opportunities, and career progression", "TrendingUp", "bg-teal-50 text-teal-600", nil, 8},
}

// Seed populates an empty database with the starter categories. It does
// nothing once any category exists, so it is safe to call on every start.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range defaultCategories {
		_, err := tx.Exec(`
			INSERT INTO categories (slug, title, description, icon, color, module_code, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (slug) DO NOTHING
		`, c.slug, c.title, c.description, c.icon, c.color, c.moduleCode, c.sortOrder)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with starter categories", "count", len(defaultCategories))
	return nil
}
