package paymentsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/macs03/dynamicweb/model"
	customerrepo "github.com/macs03/dynamicweb/repository/customer"
	omiserepo "github.com/macs03/dynamicweb/repository/omise"
)

// Directory keeps one gateway customer per email.
type Directory interface {
	GetOrCreate(ctx context.Context, user model.User, cardToken string) (*model.Customer, error)
}

type directory struct {
	repo customerrepo.Repo
	gw   omiserepo.Repo
	log  *slog.Logger
}

func NewDirectory(repo customerrepo.Repo, gw omiserepo.Repo, log *slog.Logger) Directory {
	return &directory{repo: repo, gw: gw, log: log}
}

// GetOrCreate returns the user's customer, creating it at the gateway on the
// first payment. An existing customer gets cardToken as its default card so
// the next charge uses the card the user just entered.
func (d *directory) GetOrCreate(ctx context.Context, user model.User, cardToken string) (*model.Customer, error) {
	email := model.NormalizeEmail(user.Email)
	if email == "" || cardToken == "" {
		return nil, errors.New("email and card token are required")
	}

	c, err := d.repo.ByEmail(ctx, email)
	switch {
	case err == nil:
		return d.refresh(ctx, c, cardToken)
	case !errors.Is(err, customerrepo.ErrNotFound):
		return nil, err
	}

	remoteID, err := d.gw.CreateCustomer(ctx, email, cardToken)
	if err != nil {
		return nil, fmt.Errorf("create gateway customer: %w", err)
	}

	c = &model.Customer{UserID: user.ID, Email: email, RemoteID: remoteID}
	err = d.repo.Insert(ctx, c)
	if errors.Is(err, customerrepo.ErrDuplicate) {
		// lost a race with a concurrent first payment; keep the stored one
		d.log.Warn("payment customer created concurrently", "email", email, "orphan_remote_id", remoteID)
		winner, err := d.repo.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return d.refresh(ctx, winner, cardToken)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (d *directory) refresh(ctx context.Context, c *model.Customer, cardToken string) (*model.Customer, error) {
	err := d.gw.AttachCard(ctx, c.RemoteID, cardToken)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, omiserepo.ErrCustomerNotFound) {
		return nil, fmt.Errorf("attach card: %w", err)
	}

	// removed at the gateway; recreate it behind the same local identity
	remoteID, err := d.gw.CreateCustomer(ctx, c.Email, cardToken)
	if err != nil {
		return nil, fmt.Errorf("recreate gateway customer: %w", err)
	}
	if err := d.repo.UpdateRemoteID(ctx, c.ID, remoteID); err != nil {
		return nil, err
	}
	d.log.Info("payment customer recreated", "customer_id", c.ID, "old_remote_id", c.RemoteID, "remote_id", remoteID)
	c.RemoteID = remoteID
	return c, nil
}
