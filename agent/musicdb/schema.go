package musicdb

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS Employee (
		EmployeeId INTEGER PRIMARY KEY,
		FirstName  TEXT NOT NULL,
		LastName   TEXT NOT NULL,
		Title      TEXT,
		Email      TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS Customer (
		CustomerId   INTEGER PRIMARY KEY,
		FirstName    TEXT NOT NULL,
		LastName     TEXT NOT NULL,
		Phone        TEXT,
		Email        TEXT,
		SupportRepId INTEGER REFERENCES Employee(EmployeeId)
	)`,
	`CREATE TABLE IF NOT EXISTS Artist (
		ArtistId INTEGER PRIMARY KEY,
		Name     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Album (
		AlbumId  INTEGER PRIMARY KEY,
		Title    TEXT NOT NULL,
		ArtistId INTEGER NOT NULL REFERENCES Artist(ArtistId)
	)`,
	`CREATE TABLE IF NOT EXISTS Genre (
		GenreId INTEGER PRIMARY KEY,
		Name    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Track (
		TrackId INTEGER PRIMARY KEY,
		Name    TEXT NOT NULL,
		AlbumId INTEGER REFERENCES Album(AlbumId),
		GenreId INTEGER REFERENCES Genre(GenreId)
	)`,
	`CREATE TABLE IF NOT EXISTS Invoice (
		InvoiceId   INTEGER PRIMARY KEY,
		CustomerId  INTEGER NOT NULL REFERENCES Customer(CustomerId),
		InvoiceDate TEXT NOT NULL,
		Total       REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS InvoiceLine (
		InvoiceLineId INTEGER PRIMARY KEY,
		InvoiceId     INTEGER NOT NULL REFERENCES Invoice(InvoiceId),
		TrackId       INTEGER NOT NULL REFERENCES Track(TrackId),
		UnitPrice     REAL NOT NULL,
		Quantity      INTEGER NOT NULL
	)`,
}

var seedStatements = []string{
	`INSERT INTO Employee (EmployeeId, FirstName, LastName, Title, Email) VALUES
		(3, 'Jane', 'Peacock', 'Sales Support Agent', 'jane@chinookcorp.com'),
		(4, 'Margaret', 'Park', 'Sales Support Agent', 'margaret@chinookcorp.com'),
		(5, 'Steve', 'Johnson', 'Sales Support Agent', 'steve@chinookcorp.com')`,
	`INSERT INTO Customer (CustomerId, FirstName, LastName, Phone, Email, SupportRepId) VALUES
		(1, 'Luís', 'Gonçalves', '+55 (12) 3923-5555', 'luisg@embraer.com.br', 3),
		(2, 'Leonie', 'Köhler', '+49 0711 2842222', 'leonekohler@surfeu.de', 5),
		(3, 'François', 'Tremblay', '+1 (514) 721-4711', 'ftremblay@gmail.com', 3)`,
	`INSERT INTO Artist (ArtistId, Name) VALUES
		(1, 'AC/DC'),
		(2, 'Rolling Stones'),
		(3, 'U2'),
		(4, 'Miles Davis'),
		(5, 'Antônio Carlos Jobim')`,
	`INSERT INTO Album (AlbumId, Title, ArtistId) VALUES
		(1, 'For Those About To Rock We Salute You', 1),
		(2, 'Let There Be Rock', 1),
		(3, 'Hot Rocks, 1964-1971 (Disc 1)', 2),
		(4, 'Achtung Baby', 3),
		(5, 'The Best Of Miles Davis', 4),
		(6, 'Warner 25 Anos', 5)`,
	`INSERT INTO Genre (GenreId, Name) VALUES
		(1, 'Rock'),
		(2, 'Jazz'),
		(3, 'Latin')`,
	`INSERT INTO Track (TrackId, Name, AlbumId, GenreId) VALUES
		(1, 'For Those About To Rock (We Salute You)', 1, 1),
		(2, 'Put The Finger On You', 1, 1),
		(3, 'Go Down', 2, 1),
		(4, 'Let There Be Rock', 2, 1),
		(5, 'Jumpin'' Jack Flash', 3, 1),
		(6, 'Paint It Black', 3, 1),
		(7, 'One', 4, 1),
		(8, 'Mysterious Ways', 4, 1),
		(9, 'So What', 5, 2),
		(10, 'Blue In Green', 5, 2),
		(11, 'Desafinado', 6, 3)`,
	`INSERT INTO Invoice (InvoiceId, CustomerId, InvoiceDate, Total) VALUES
		(98, 1, '2021-03-11 00:00:00', 3.98),
		(121, 1, '2021-06-13 00:00:00', 8.91),
		(143, 1, '2021-09-15 00:00:00', 13.86),
		(1, 2, '2021-01-01 00:00:00', 1.98),
		(12, 2, '2021-02-11 00:00:00', 13.86),
		(99, 3, '2021-03-11 00:00:00', 3.98)`,
	`INSERT INTO InvoiceLine (InvoiceLineId, InvoiceId, TrackId, UnitPrice, Quantity) VALUES
		(1, 98, 1, 0.99, 1),
		(2, 98, 5, 2.99, 1),
		(3, 121, 7, 0.99, 1),
		(4, 121, 9, 1.98, 1),
		(5, 143, 4, 0.99, 2),
		(6, 1, 2, 0.99, 2),
		(7, 12, 6, 1.99, 1),
		(8, 99, 11, 0.99, 1)`,
}

// Seed creates the schema and, when the database is empty, loads a small
// Chinook-flavored sample set so the demo and tests run without any
// external download.
func (d *DB) Seed(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	var customers int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM Customer").Scan(&customers); err != nil {
		return fmt.Errorf("inspect customer table: %w", err)
	}
	if customers > 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	for _, stmt := range seedStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed data: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}
