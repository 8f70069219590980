// Package models defines the persisted entities of the chisubmit server:
// users, courses and their role memberships, assignments with rubric
// components, teams, registrations, grades and penalties.
//
// Uniqueness rules that must survive concurrent writers (user id, api key,
// one role per user per course, one registration per team/assignment pair,
// one grade per registration/rubric component) are declared as primary keys
// or unique indexes so the database acts as the final backstop; pkg/store
// and pkg/reconcile translate constraint violations into domain errors.
package models

// AllModels returns all models for database auto-migration.
// Order matters for foreign key creation.
func AllModels() []any {
	return []any{
		&User{},
		&Course{},
		&CourseMember{},
		&Assignment{},
		&RubricComponent{},
		&Team{},
		&TeamMember{},
		&Registration{},
		&Grade{},
		&Penalty{},
	}
}
