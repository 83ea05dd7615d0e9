package database

// Migrations is the schema history of wordma.db. Append only: never edit or reorder an entry
// that has shipped, ApplyMigrations rejects a modified migration by checksum.
//
// A statement that may fail with "already exists" or "duplicate column name" (plain CREATE,
// ALTER TABLE ADD COLUMN) must be the only statement of its migration: SQLite stops at the
// failing statement, the error is tolerated and the migration is recorded, so anything after
// it would never run. Multi-statement migrations use IF NOT EXISTS forms only.
var Migrations = []Migration{
	{
		Version:     1,
		Description: "ensure_tables_exist",
		SQL: `CREATE TABLE IF NOT EXISTS site (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT
);
CREATE TABLE IF NOT EXISTS article (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT,
    type TEXT NOT NULL DEFAULT 'markdown',
    summary TEXT,
    cover TEXT,
    status TEXT DEFAULT 'draft',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
INSERT INTO article (title, content, type, summary, status)
SELECT '欢迎使用 Wordma', '# Hello Wordma

这是一个示例 Markdown 文章。你可以在这里开始你的写作之旅！', 'markdown', '这是第一篇文章的摘要', 'published'
WHERE NOT EXISTS (SELECT 1 FROM article);
INSERT INTO site (name, description)
SELECT '默认站点', '这是初始化创建的站点描述'
WHERE NOT EXISTS (SELECT 1 FROM site);`,
	},
	{
		Version:     2,
		Description: "add_site_path",
		SQL:         `ALTER TABLE site ADD COLUMN path TEXT;`,
	},
	{
		Version:     3,
		Description: "add_article_indexes",
		SQL: `CREATE INDEX IF NOT EXISTS idx_article_status ON article (status);
CREATE INDEX IF NOT EXISTS idx_article_created_at ON article (created_at);`,
	},
}
