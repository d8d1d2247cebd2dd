package sqlstore

// Dialect captures what differs between the supported engines: the DDL and
// how a case-sensitive substring test is written.
type Dialect struct {
	Name     string
	Schema   []string
	contains func(col string) string
}

var MySQL = Dialect{
	Name: "mysql",
	Schema: []string{`
CREATE TABLE IF NOT EXISTS hotel (
  id             BIGINT       NOT NULL AUTO_INCREMENT,
  nombre         VARCHAR(100) NOT NULL,
  ciudad         VARCHAR(80)  NOT NULL,
  pais           VARCHAR(80)  NOT NULL,
  direccion      TEXT         NULL,
  estrellas      INT          NOT NULL DEFAULT 3,
  descripcion    TEXT         NULL,
  precio_noche   DOUBLE       NOT NULL,
  fecha_creacion DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
  PRIMARY KEY (id),
  CONSTRAINT chk_hotel_estrellas CHECK (estrellas BETWEEN 1 AND 5),
  CONSTRAINT chk_hotel_precio CHECK (precio_noche > 0)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, `
CREATE TABLE IF NOT EXISTS paquete_turistico (
  id             BIGINT       NOT NULL AUTO_INCREMENT,
  nombre         VARCHAR(100) NOT NULL,
  descripcion    TEXT         NOT NULL,
  duracion_dias  INT          NOT NULL,
  precio_total   DOUBLE       NOT NULL,
  actividades    TEXT         NULL,
  hotel_id       BIGINT       NOT NULL,
  disponible     BOOLEAN      NOT NULL DEFAULT TRUE,
  fecha_creacion DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
  PRIMARY KEY (id),
  KEY idx_paquete_hotel (hotel_id),
  CONSTRAINT fk_paquete_hotel FOREIGN KEY (hotel_id) REFERENCES hotel (id),
  CONSTRAINT chk_paquete_duracion CHECK (duracion_dias BETWEEN 1 AND 365),
  CONSTRAINT chk_paquete_precio CHECK (precio_total > 0)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	// default collations compare case-insensitively; compare bytes instead
	contains: func(col string) string { return "INSTR(CAST(" + col + " AS BINARY), CAST(? AS BINARY)) > 0" },
}

var SQLite = Dialect{
	Name: "sqlite",
	Schema: []string{`
CREATE TABLE IF NOT EXISTS hotel (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre         VARCHAR(100) NOT NULL,
  ciudad         VARCHAR(80)  NOT NULL,
  pais           VARCHAR(80)  NOT NULL,
  direccion      TEXT,
  estrellas      INTEGER      NOT NULL DEFAULT 3 CHECK (estrellas BETWEEN 1 AND 5),
  descripcion    TEXT,
  precio_noche   REAL         NOT NULL CHECK (precio_noche > 0),
  fecha_creacion DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, `
CREATE TABLE IF NOT EXISTS paquete_turistico (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre         VARCHAR(100) NOT NULL,
  descripcion    TEXT         NOT NULL,
  duracion_dias  INTEGER      NOT NULL CHECK (duracion_dias BETWEEN 1 AND 365),
  precio_total   REAL         NOT NULL CHECK (precio_total > 0),
  actividades    TEXT,
  hotel_id       INTEGER      NOT NULL REFERENCES hotel (id),
  disponible     BOOLEAN      NOT NULL DEFAULT 1,
  fecha_creacion DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE INDEX IF NOT EXISTS idx_paquete_hotel ON paquete_turistico (hotel_id)`,
	},
	contains: func(col string) string { return "instr(" + col + ", ?) > 0" },
}

const insertHotelSQL = `
INSERT INTO hotel
  (nombre, ciudad, pais, direccion, estrellas, descripcion, precio_noche, fecha_creacion)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const insertPackageSQL = `
INSERT INTO paquete_turistico
  (nombre, descripcion, duracion_dias, precio_total, actividades, hotel_id, disponible, fecha_creacion)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Nullable text columns are coalesced so rows scan straight into the domain structs.
const selectHotelSQL = `
SELECT
  id,
  nombre,
  ciudad,
  pais,
  COALESCE(direccion, '')   AS direccion,
  estrellas,
  COALESCE(descripcion, '') AS descripcion,
  precio_noche,
  fecha_creacion
FROM hotel`

const selectPackageSQL = `
SELECT
  id,
  nombre,
  descripcion,
  duracion_dias,
  precio_total,
  COALESCE(actividades, '') AS actividades,
  hotel_id,
  disponible,
  fecha_creacion
FROM paquete_turistico`
