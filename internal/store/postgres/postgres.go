// Package postgres implements every store interface against a pgx pool. All
// cross-request correctness relies on single atomic statements here: unique
// indexes guard inserts, conditional UPDATE ... RETURNING guards transitions.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprocure/api/internal/apperr"
)

const uniqueViolationCode = "23505"

// Stores bundles the per-domain store implementations sharing one pool.
type Stores struct {
	Users         *UserStore
	Organisations *OrganisationStore
	Rfps          *RfpStore
	Proposals     *ProposalStore
	Comments      *CommentStore
	Audits        *AuditStore
}

func New(db *pgxpool.Pool) *Stores {
	return &Stores{
		Users:         &UserStore{db: db},
		Organisations: &OrganisationStore{db: db},
		Rfps:          &RfpStore{db: db},
		Proposals:     &ProposalStore{db: db},
		Comments:      &CommentStore{db: db},
		Audits:        &AuditStore{db: db},
	}
}

// translate maps driver errors into the taxonomy so services never inspect
// pg error codes themselves.
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("no rows")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return apperr.Conflict("duplicate key")
	}
	return err
}
