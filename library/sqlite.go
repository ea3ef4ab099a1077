package library

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chazu/scratchc/block"
)

// SQLiteCatalog is a catalog imported into a SQLite database, for libraries
// too large to parse on every build. Lookups follow the same order as
// Catalog: exact, case-insensitive, prefix, contains.
type SQLiteCatalog struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS sprites (
	seq  INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS costumes (
	sprite            INTEGER NOT NULL REFERENCES sprites(seq),
	seq               INTEGER NOT NULL,
	name              TEXT NOT NULL,
	asset_id          TEXT NOT NULL,
	data_format       TEXT NOT NULL,
	md5ext            TEXT NOT NULL,
	rotation_center_x REAL NOT NULL,
	rotation_center_y REAL NOT NULL,
	bitmap_resolution INTEGER NOT NULL,
	PRIMARY KEY (sprite, seq)
);
CREATE TABLE IF NOT EXISTS sounds (
	seq          INTEGER PRIMARY KEY,
	sprite       INTEGER,
	name         TEXT NOT NULL,
	asset_id     TEXT NOT NULL,
	data_format  TEXT NOT NULL,
	md5ext       TEXT NOT NULL,
	rate         INTEGER NOT NULL,
	sample_count INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS sounds_by_sprite ON sounds (sprite);
`

// OpenSQLite opens (creating if needed) the catalog database at path.
func OpenSQLite(path string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("library: opening database: %w", err)
	}
	// One connection keeps ":memory:" databases alive across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("library: setting busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("library: creating tables: %w", err)
	}
	return &SQLiteCatalog{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *SQLiteCatalog) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Import replaces the database contents with c.
func (s *SQLiteCatalog) Import(c *Catalog) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("library: import: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"costumes", "sounds", "sprites"} {
		if _, err = tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("library: clearing %s: %w", table, err)
		}
	}

	for i, sp := range c.Sprites {
		if _, err = tx.Exec("INSERT INTO sprites (seq, name) VALUES (?, ?)", i+1, sp.Name); err != nil {
			return fmt.Errorf("library: sprite %s: %w", sp.Name, err)
		}
		for j, e := range sp.Costumes {
			co := e.Costume()
			_, err = tx.Exec(`INSERT INTO costumes (sprite, seq, name, asset_id, data_format, md5ext,
				rotation_center_x, rotation_center_y, bitmap_resolution) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				i+1, j, co.Name, co.AssetID, co.DataFormat, co.MD5Ext,
				co.RotationCenterX, co.RotationCenterY, co.BitmapResolution)
			if err != nil {
				return fmt.Errorf("library: costume %s of %s: %w", co.Name, sp.Name, err)
			}
		}
		for _, e := range sp.Sounds {
			if err = insertSound(tx, i+1, e.Sound()); err != nil {
				return err
			}
		}
	}
	for _, e := range c.Sounds {
		if err = insertSound(tx, nil, e.Sound()); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("library: import: %w", err)
	}
	log.Infof("imported %d sprite(s), %d sound(s) into %s", len(c.Sprites), len(c.Sounds), s.path)
	return nil
}

func insertSound(tx *sql.Tx, sprite any, snd block.Sound) error {
	_, err := tx.Exec(`INSERT INTO sounds (sprite, name, asset_id, data_format, md5ext, rate, sample_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sprite, snd.Name, snd.AssetID, snd.DataFormat, snd.MD5Ext, snd.Rate, snd.SampleCount)
	if err != nil {
		return fmt.Errorf("library: sound %s: %w", snd.Name, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Lookup
// ---------------------------------------------------------------------------

// Fuzzy match over a name column, binding the query name once as q.n.
// The rank mirrors match().
const (
	matchQuery = `WITH q(n) AS (SELECT ?) `
	matchWhere = `instr(lower(name), lower(q.n)) > 0`
	matchRank  = `
	CASE
		WHEN name = q.n THEN 0
		WHEN lower(name) = lower(q.n) THEN 1
		WHEN instr(lower(name), lower(q.n)) = 1 THEN 2
		ELSE 3
	END`
)

// FindSprite returns the sequence number and name of the best match.
func (s *SQLiteCatalog) FindSprite(name string) (int64, string, error) {
	if name == "" {
		return 0, "", fmt.Errorf("%w: sprite %q", ErrNotFound, name)
	}
	var seq int64
	var found string
	err := s.db.QueryRow(matchQuery+`SELECT seq, name FROM sprites, q
		WHERE `+matchWhere+`
		ORDER BY `+matchRank+`, seq LIMIT 1`, name).Scan(&seq, &found)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", fmt.Errorf("%w: sprite %q", ErrNotFound, name)
	}
	if err != nil {
		return 0, "", fmt.Errorf("library: querying sprite: %w", err)
	}
	return seq, found, nil
}

// FindSound returns the standalone sound best matching name.
func (s *SQLiteCatalog) FindSound(name string) (block.Sound, error) {
	if name == "" {
		return block.Sound{}, fmt.Errorf("%w: sound %q", ErrNotFound, name)
	}
	row := s.db.QueryRow(matchQuery+`SELECT name, asset_id, data_format, md5ext, rate, sample_count
		FROM sounds, q
		WHERE sprite IS NULL AND `+matchWhere+`
		ORDER BY `+matchRank+`, seq LIMIT 1`, name)
	snd, err := scanSound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return block.Sound{}, fmt.Errorf("%w: sound %q", ErrNotFound, name)
	}
	if err != nil {
		return block.Sound{}, fmt.Errorf("library: querying sound: %w", err)
	}
	return snd, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSound(row scanner) (block.Sound, error) {
	var snd block.Sound
	err := row.Scan(&snd.Name, &snd.AssetID, &snd.DataFormat, &snd.MD5Ext, &snd.Rate, &snd.SampleCount)
	return snd, err
}

// SpriteAssets loads the looks and sounds of the sprite with sequence
// number seq.
func (s *SQLiteCatalog) SpriteAssets(seq int64) ([]block.Costume, []block.Sound, error) {
	rows, err := s.db.Query(`SELECT name, asset_id, data_format, md5ext,
		rotation_center_x, rotation_center_y, bitmap_resolution
		FROM costumes WHERE sprite = ? ORDER BY seq`, seq)
	if err != nil {
		return nil, nil, fmt.Errorf("library: querying costumes: %w", err)
	}
	var costumes []block.Costume
	for rows.Next() {
		var c block.Costume
		if err := rows.Scan(&c.Name, &c.AssetID, &c.DataFormat, &c.MD5Ext,
			&c.RotationCenterX, &c.RotationCenterY, &c.BitmapResolution); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("library: reading costume: %w", err)
		}
		costumes = append(costumes, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("library: reading costumes: %w", err)
	}

	rows, err = s.db.Query(`SELECT name, asset_id, data_format, md5ext, rate, sample_count
		FROM sounds WHERE sprite = ? ORDER BY seq`, seq)
	if err != nil {
		return nil, nil, fmt.Errorf("library: querying sounds: %w", err)
	}
	defer rows.Close()
	var sounds []block.Sound
	for rows.Next() {
		snd, err := scanSound(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("library: reading sound: %w", err)
		}
		sounds = append(sounds, snd)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("library: reading sounds: %w", err)
	}
	return costumes, sounds, nil
}

// ResolveSpriteAssets implements the assembler's resolver. Database errors
// are logged and reported as no match.
func (s *SQLiteCatalog) ResolveSpriteAssets(name string) ([]block.Costume, []block.Sound, bool) {
	seq, found, err := s.FindSprite(name)
	if err != nil {
		log.Debug(err.Error())
		return nil, nil, false
	}
	costumes, sounds, err := s.SpriteAssets(seq)
	if err != nil {
		log.Warningf("sprite %s: %s", found, err)
		return nil, nil, false
	}
	return costumes, sounds, true
}

// ResolveSound implements the assembler's resolver.
func (s *SQLiteCatalog) ResolveSound(name string) (block.Sound, bool) {
	snd, err := s.FindSound(name)
	if err != nil {
		log.Debug(err.Error())
		return block.Sound{}, false
	}
	return snd, true
}
