// Package dialect centralizes the SQL statement text shared by the
// sqlite and mysql backends.
//
// The two engines diverge only in DDL details (autoincrement keyword,
// string column type, trigger guard syntax); every data statement is
// identical and uses ? placeholders, which both drivers accept. Keeping
// the differences behind this package means the backends themselves
// contain no inline dialect switches.
package dialect

import (
	"fmt"
)

// Dialect captures the engine-specific pieces of the schema DDL.
type Dialect struct {
	name          string
	autoincrement string
	stringType    string
}

var (
	// SQLite is the embedded single-file engine dialect.
	SQLite = Dialect{name: "sqlite", autoincrement: "AUTOINCREMENT", stringType: "TEXT"}

	// MySQL is the client-server engine dialect, also valid for MariaDB.
	MySQL = Dialect{name: "mysql", autoincrement: "AUTO_INCREMENT", stringType: "VARCHAR(255)"}
)

// Name returns the dialect identifier ("sqlite" or "mysql").
func (d Dialect) Name() string { return d.name }

// CreateTables returns the idempotent CREATE TABLE statements for the
// whole schema, in dependency order.
//
// The urls and fact_references tables are reserved for a citations
// feature that has no operations yet; they are created for schema
// compatibility with existing databases and nothing reads or writes
// them.
func (d Dialect) CreateTables() []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY %s,
			name %s NOT NULL UNIQUE)`, d.autoincrement, d.stringType),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS facts (
			id INTEGER PRIMARY KEY %s,
			name %s NOT NULL UNIQUE)`, d.autoincrement, d.stringType),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY %s,
			category_id INTEGER,
			fact_id INTEGER,
			CONSTRAINT FK_ENTRY_CATEGORY FOREIGN KEY(category_id) REFERENCES categories(id) ON DELETE CASCADE,
			CONSTRAINT FK_ENTRY_FACT FOREIGN KEY(fact_id) REFERENCES facts(id) ON DELETE CASCADE,
			CONSTRAINT UN_CATEGORY_FACT UNIQUE (category_id, fact_id))`, d.autoincrement),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS urls (
			id INTEGER PRIMARY KEY %s,
			url %s NOT NULL)`, d.autoincrement, d.stringType),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS fact_references (
			id INTEGER PRIMARY KEY %s,
			fact_id INTEGER,
			url_id INTEGER,
			CONSTRAINT FK_REFERENCE_FACT FOREIGN KEY(fact_id) REFERENCES facts(id),
			CONSTRAINT FK_REFERENCE_URL FOREIGN KEY(url_id) REFERENCES urls(id))`, d.autoincrement),
	}
}

// CreateOrphanTrigger returns the statement creating the fact cleanup
// trigger: after an entry is deleted, a fact with no remaining entries
// is deleted too.
//
// SQLite supports a creation guard; MySQL does not, so the mysql backend
// creates the trigger best-effort and swallows the already-exists error.
func (d Dialect) CreateOrphanTrigger() string {
	if d.name == "sqlite" {
		return `CREATE TRIGGER IF NOT EXISTS TG_DELETE_FACTS
			AFTER DELETE ON entries
			WHEN (SELECT count() FROM entries WHERE fact_id = old.fact_id) = 0
			BEGIN DELETE FROM facts WHERE facts.id = old.fact_id; END`
	}
	return `CREATE TRIGGER TG_DELETE_FACTS
		AFTER DELETE ON entries
		FOR EACH ROW
		BEGIN
			IF (SELECT count(*) FROM entries WHERE fact_id = OLD.fact_id) = 0 THEN
				DELETE FROM facts WHERE facts.id = OLD.fact_id;
			END IF;
		END`
}

// Data statements shared verbatim by both backends.
const (
	// InsertCategory creates a category row. Violating the name
	// uniqueness constraint maps to ErrDuplicateCategory.
	InsertCategory = `INSERT INTO categories(name) VALUES (?)`

	// InsertFact creates a fact row. Violating the store-wide text
	// uniqueness constraint is absorbed inside AddFact.
	InsertFact = `INSERT INTO facts(name) VALUES (?)`

	// InsertEntry links an existing fact to an existing category by name.
	// Violating the (category_id, fact_id) constraint maps to
	// ErrDuplicateEntry.
	InsertEntry = `INSERT INTO entries(fact_id, category_id)
		SELECT facts.id, categories.id
		FROM facts, categories
		WHERE facts.name = ? AND categories.name = ?`

	// DeleteEntry unlinks a fact from a category by name. The orphan
	// trigger fires afterwards.
	DeleteEntry = `DELETE FROM entries
		WHERE fact_id = (SELECT id FROM facts WHERE name = ?)
		AND category_id = (SELECT id FROM categories WHERE name = ?)`

	// DeleteCategoryEntries removes a category's entry links directly.
	// MySQL does not activate triggers for cascade-deleted rows, so its
	// backend runs this before DeleteCategory to make the orphan
	// trigger fire; SQLite fires the trigger from the cascade itself.
	DeleteCategoryEntries = `DELETE FROM entries
		WHERE category_id = (SELECT id FROM categories WHERE name = ?)`

	// DeleteCategory removes a category; entries go with it via the
	// cascade constraint, and the trigger cleans up orphaned facts.
	DeleteCategory = `DELETE FROM categories WHERE name = ?`

	// SearchFacts matches fact text with LIKE. The caller supplies the
	// raw pattern; wrapping in %...% happens in the backends.
	SearchFacts = `SELECT name FROM facts WHERE name LIKE ?`

	// ListCategories returns category names in backend row order.
	ListCategories = `SELECT name FROM categories`

	// ConsultCategory returns a category's facts in creation order, the
	// ordering positional consultation counts against.
	ConsultCategory = `SELECT facts.name
		FROM facts
		JOIN entries ON facts.id = entries.fact_id
		JOIN categories ON categories.id = entries.category_id
		WHERE categories.name = ?
		ORDER BY facts.id ASC`

	// ConsultAt narrows ConsultCategory to the single fact at a 1-based
	// position; the offset parameter is position-1.
	ConsultAt = ConsultCategory + ` LIMIT 1 OFFSET ?`
)
