package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Role{},
		&Group{},
		&User{},
		&Settings{},
		&Project{},
		&Team{},
		&TeamMember{},
		&Task{},
		&TaskAssignment{},
		&TaskActivity{},
		&Report{},
	}
}
