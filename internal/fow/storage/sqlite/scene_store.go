package sqlite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/fogofwar/internal/fow"
	"github.com/banshee-data/fogofwar/internal/fow/scene"
)

// ErrSceneNotFound is returned when no scene has the requested id.
var ErrSceneNotFound = errors.New("scene not found")

// Scene is a stored engine snapshot. Body holds the block-format export
// produced by fow.ExportScene.
type Scene struct {
	SceneID     string          `json:"scene_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Body        string          `json:"body"`
	GridX       int             `json:"grid_x"`
	GridY       int             `json:"grid_y"`
	Viewers     int             `json:"viewers"`
	Occluders   int             `json:"occluders"`
	TriSoups    int             `json:"trisoups"`
	StatsJSON   json.RawMessage `json:"stats_json,omitempty"`
	CreatedAtNs int64           `json:"created_at_ns"`
	UpdatedAtNs *int64          `json:"updated_at_ns,omitempty"`
}

// SceneStore provides persistence for engine scenes.
type SceneStore struct {
	db *sql.DB
}

// NewSceneStore creates a new SceneStore.
func NewSceneStore(db *sql.DB) *SceneStore {
	return &SceneStore{db: db}
}

const sceneColumns = `scene_id, name, description, body, grid_x, grid_y,
	viewers, occluders, trisoups, stats_json, created_at_ns, updated_at_ns`

// InsertScene stores a new scene.
// If scene.SceneID is empty, a new UUID is generated.
func (s *SceneStore) InsertScene(sc *Scene) error {
	if sc.SceneID == "" {
		sc.SceneID = uuid.New().String()
	}
	if sc.CreatedAtNs == 0 {
		sc.CreatedAtNs = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`INSERT INTO fow_scenes (`+sceneColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.SceneID,
		sc.Name,
		nullString(sc.Description),
		sc.Body,
		sc.GridX,
		sc.GridY,
		sc.Viewers,
		sc.Occluders,
		sc.TriSoups,
		nullString(string(sc.StatsJSON)),
		sc.CreatedAtNs,
		nullInt64(sc.UpdatedAtNs),
	)
	if err != nil {
		return fmt.Errorf("insert scene: %w", err)
	}
	return nil
}

// GetScene retrieves a scene by id.
func (s *SceneStore) GetScene(sceneID string) (*Scene, error) {
	row := s.db.QueryRow(`SELECT `+sceneColumns+` FROM fow_scenes WHERE scene_id = ?`, sceneID)
	sc, err := scanScene(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get scene %s: %w", sceneID, ErrSceneNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get scene: %w", err)
	}
	return sc, nil
}

// ListScenes returns every scene, newest first. A non-empty name filters on
// an exact match.
func (s *SceneStore) ListScenes(name string) ([]*Scene, error) {
	query := `SELECT ` + sceneColumns + ` FROM fow_scenes`
	var args []interface{}
	if name != "" {
		query += ` WHERE name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY created_at_ns DESC, scene_id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	var scenes []*Scene
	for rows.Next() {
		sc, err := scanScene(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scene row: %w", err)
		}
		scenes = append(scenes, sc)
	}
	return scenes, rows.Err()
}

// UpdateScene replaces the body and summary columns of an existing scene
// and stamps UpdatedAtNs.
func (s *SceneStore) UpdateScene(sc *Scene) error {
	now := time.Now().UnixNano()
	res, err := s.db.Exec(`UPDATE fow_scenes
		SET name = ?, description = ?, body = ?, grid_x = ?, grid_y = ?,
		    viewers = ?, occluders = ?, trisoups = ?, stats_json = ?, updated_at_ns = ?
		WHERE scene_id = ?`,
		sc.Name,
		nullString(sc.Description),
		sc.Body,
		sc.GridX,
		sc.GridY,
		sc.Viewers,
		sc.Occluders,
		sc.TriSoups,
		nullString(string(sc.StatsJSON)),
		now,
		sc.SceneID,
	)
	if err != nil {
		return fmt.Errorf("update scene: %w", err)
	}
	if err := expectOneRow(res, "update", sc.SceneID); err != nil {
		return err
	}
	sc.UpdatedAtNs = &now
	return nil
}

// DeleteScene removes a scene.
func (s *SceneStore) DeleteScene(sceneID string) error {
	res, err := s.db.Exec(`DELETE FROM fow_scenes WHERE scene_id = ?`, sceneID)
	if err != nil {
		return fmt.Errorf("delete scene: %w", err)
	}
	return expectOneRow(res, "delete", sceneID)
}

// Snapshot exports f into a new, unsaved Scene.
func Snapshot(f *fow.FoW, name, description string) (*Scene, error) {
	var buf bytes.Buffer
	w := scene.NewKVWriter(&buf)
	if err := f.ExportScene(w); err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}

	st := f.Stats()
	statsJSON, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: marshal stats: %w", name, err)
	}
	return &Scene{
		Name:        name,
		Description: description,
		Body:        buf.String(),
		GridX:       st.GridX,
		GridY:       st.GridY,
		Viewers:     st.Viewers,
		Occluders:   st.Occluders,
		TriSoups:    st.TriSoups,
		StatsJSON:   statsJSON,
	}, nil
}

// Restore replaces the state of f with the stored scene.
func Restore(f *fow.FoW, sc *Scene) error {
	root, err := scene.Parse(strings.NewReader(sc.Body))
	if err != nil {
		return fmt.Errorf("restore scene %s: %w", sc.SceneID, err)
	}
	if err := f.LoadScene(root); err != nil {
		return fmt.Errorf("restore scene %s: %w", sc.SceneID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScene(r rowScanner) (*Scene, error) {
	var sc Scene
	var description, statsJSON sql.NullString
	var updatedAtNs sql.NullInt64

	err := r.Scan(
		&sc.SceneID,
		&sc.Name,
		&description,
		&sc.Body,
		&sc.GridX,
		&sc.GridY,
		&sc.Viewers,
		&sc.Occluders,
		&sc.TriSoups,
		&statsJSON,
		&sc.CreatedAtNs,
		&updatedAtNs,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		sc.Description = description.String
	}
	if statsJSON.Valid && statsJSON.String != "" {
		sc.StatsJSON = json.RawMessage(statsJSON.String)
	}
	if updatedAtNs.Valid {
		v := updatedAtNs.Int64
		sc.UpdatedAtNs = &v
	}
	return &sc, nil
}

func expectOneRow(res sql.Result, op, sceneID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s scene: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s scene %s: %w", op, sceneID, ErrSceneNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
