package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

func (s *pgStore) CreateUser(tenantID int, email, hashedPassword string, name *string) (int, error) {
	var id int
	err := s.db.Get(&id, `
		INSERT INTO users (tenant_id, email, hashed_password, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id;`, tenantID, email, hashedPassword, name)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("CreateUser failed")
		return 0, err
	}
	return id, nil
}

func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `
		SELECT id, tenant_id, email, hashed_password, name, created_at, updated_at
		  FROM users
		 WHERE email = $1;`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `
		SELECT id, tenant_id, email, hashed_password, name, created_at, updated_at
		  FROM users
		 WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
