package db

import (
	"context"
	"database/sql"
)

type Search struct {
	ID           int64
	RunID        string
	Query        string
	HtmlPath     string
	JsonPath     string
	FinalUrl     sql.NullString
	StatusCode   sql.NullInt64
	ProductCount int64
	CreatedAt    int64
}

type Product struct {
	SearchID      int64
	Position      int64
	ProductID     sql.NullString
	Name          sql.NullString
	Url           sql.NullString
	Price         sql.NullString
	OriginalPrice sql.NullString
	Rating        sql.NullString
	RatingCount   sql.NullString
	ImageUrl      sql.NullString
	Badges        sql.NullString
}

const createSearch = `-- name: CreateSearch :one
insert into search (
    run_id, query, html_path, json_path, final_url, status_code, product_count, created_at
) values (?, ?, ?, ?, ?, ?, ?, ?)
returning id
`

type CreateSearchParams struct {
	RunID        string
	Query        string
	HtmlPath     string
	JsonPath     string
	FinalUrl     sql.NullString
	StatusCode   sql.NullInt64
	ProductCount int64
	CreatedAt    int64
}

func (q *Queries) CreateSearch(ctx context.Context, arg CreateSearchParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createSearch,
		arg.RunID,
		arg.Query,
		arg.HtmlPath,
		arg.JsonPath,
		arg.FinalUrl,
		arg.StatusCode,
		arg.ProductCount,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createProduct = `-- name: CreateProduct :exec
insert into product (
    search_id, position, product_id, name, url, price,
    original_price, rating, rating_count, image_url, badges
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateProductParams struct {
	SearchID      int64
	Position      int64
	ProductID     sql.NullString
	Name          sql.NullString
	Url           sql.NullString
	Price         sql.NullString
	OriginalPrice sql.NullString
	Rating        sql.NullString
	RatingCount   sql.NullString
	ImageUrl      sql.NullString
	Badges        sql.NullString
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) error {
	_, err := q.db.ExecContext(ctx, createProduct,
		arg.SearchID,
		arg.Position,
		arg.ProductID,
		arg.Name,
		arg.Url,
		arg.Price,
		arg.OriginalPrice,
		arg.Rating,
		arg.RatingCount,
		arg.ImageUrl,
		arg.Badges,
	)
	return err
}

const getSearch = `-- name: GetSearch :one
select id, run_id, query, html_path, json_path, final_url, status_code, product_count, created_at from search
where run_id = ?
`

func (q *Queries) GetSearch(ctx context.Context, runID string) (Search, error) {
	row := q.db.QueryRowContext(ctx, getSearch, runID)
	var i Search
	err := row.Scan(
		&i.ID,
		&i.RunID,
		&i.Query,
		&i.HtmlPath,
		&i.JsonPath,
		&i.FinalUrl,
		&i.StatusCode,
		&i.ProductCount,
		&i.CreatedAt,
	)
	return i, err
}

const getProducts = `-- name: GetProducts :many
select search_id, position, product_id, name, url, price, original_price, rating, rating_count, image_url, badges from product
where search_id = ?
order by position asc
`

func (q *Queries) GetProducts(ctx context.Context, searchID int64) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, getProducts, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.SearchID,
			&i.Position,
			&i.ProductID,
			&i.Name,
			&i.Url,
			&i.Price,
			&i.OriginalPrice,
			&i.Rating,
			&i.RatingCount,
			&i.ImageUrl,
			&i.Badges,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listSearches = `-- name: ListSearches :many
select id, run_id, query, html_path, json_path, final_url, status_code, product_count, created_at from search
order by created_at desc, id desc
limit ?
`

func (q *Queries) ListSearches(ctx context.Context, limit int64) ([]Search, error) {
	rows, err := q.db.QueryContext(ctx, listSearches, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Search
	for rows.Next() {
		var i Search
		if err := rows.Scan(
			&i.ID,
			&i.RunID,
			&i.Query,
			&i.HtmlPath,
			&i.JsonPath,
			&i.FinalUrl,
			&i.StatusCode,
			&i.ProductCount,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
