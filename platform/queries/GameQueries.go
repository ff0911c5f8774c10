package queries

import (
	"github.com/go-pg/pg/v10"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// Roster is the lobby bookkeeping kept in postgres: games, the players seated
// in them and their users.
type Roster interface {
	VerifyGame(id string) bool
	GetUser(id string) (*models.User, error)
	CreatePlayer(player models.Player) error
	GetPlayers(gameID string) ([]models.Player, error)
	DeletePlayer(userID, gameID string) error
	MarkStarted(gameID string) error
	CleanUp(gameID string) error
}

type PgRoster struct {
	DB *pg.DB
}

func (r *PgRoster) VerifyGame(id string) bool {
	game := &models.Game{Id: id}
	return r.DB.Model(game).WherePK().Select() == nil
}

func (r *PgRoster) GetUser(id string) (*models.User, error) {
	user := &models.User{Id: id}
	if err := r.DB.Model(user).WherePK().Select(); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *PgRoster) CreatePlayer(player models.Player) error {
	_, err := r.DB.Model(&player).OnConflict("DO NOTHING").Insert()
	return err
}

// GetPlayers returns the seated players in join order.
func (r *PgRoster) GetPlayers(gameID string) ([]models.Player, error) {
	var players []models.Player
	err := r.DB.Model(&players).Where("game_id = ?", gameID).Order("active ASC").Select()
	return players, err
}

// DeletePlayer unseats a user; a lobby nobody is left in is removed.
func (r *PgRoster) DeletePlayer(userID, gameID string) error {
	player := new(models.Player)
	if _, err := r.DB.Model(player).Where("user_id = ? and game_id = ?", userID, gameID).Delete(); err != nil {
		return err
	}
	n, err := r.DB.Model((*models.Player)(nil)).Where("game_id = ?", gameID).Count()
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = r.DB.Model((*models.Game)(nil)).Where("id = ?", gameID).Delete()
	}
	return err
}

func (r *PgRoster) MarkStarted(gameID string) error {
	game := &models.Game{Id: gameID}
	_, err := r.DB.Model(game).WherePK().Set("status = ?", models.GameInProgress).Update()
	return err
}

func (r *PgRoster) CleanUp(gameID string) error {
	if _, err := r.DB.Model((*models.Player)(nil)).Where("game_id = ?", gameID).Delete(); err != nil {
		return err
	}
	_, err := r.DB.Model((*models.Game)(nil)).Where("id = ?", gameID).Delete()
	return err
}
