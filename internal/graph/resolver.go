package graph

import (
	"context"
	"encoding/json"

	"tms/internal/apperror"
	"tms/internal/models"
	"tms/internal/services"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// Resolver binds the schema to the services.
type Resolver struct {
	auth      *services.AuthService
	queries   *services.QueryService
	shipments *services.ShipmentService
	log       *zap.Logger
}

func NewResolver(auth *services.AuthService, queries *services.QueryService, shipments *services.ShipmentService, log *zap.Logger) *Resolver {
	return &Resolver{auth: auth, queries: queries, shipments: shipments, log: log}
}

// fail converts err to the error type clients see. Internal causes are
// logged and hidden.
func (r *Resolver) fail(p graphql.ResolveParams, err error) (interface{}, error) {
	appErr := apperror.From(err)
	if appErr.Code == apperror.CodeInternal {
		r.log.Error("resolver failed", zap.String("field", p.Info.FieldName), zap.Error(err))
		return nil, apperror.ErrInternal
	}
	return nil, appErr
}

func (r *Resolver) identity(ctx context.Context) (*models.Identity, error) {
	return r.auth.Authenticate(TokenFrom(ctx))
}

// decodeArg copies a GraphQL argument into dst through its JSON form.
func decodeArg(args map[string]interface{}, name string, dst interface{}) error {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return apperror.Validation("invalid " + name)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return apperror.Validation("invalid " + name + ": " + err.Error())
	}
	return nil
}

func listParams(args map[string]interface{}) (models.ShipmentFilter, models.ShipmentSort, error) {
	var filter models.ShipmentFilter
	if err := decodeArg(args, "filter", &filter); err != nil {
		return filter, models.ShipmentSort{}, err
	}
	sortBy, _ := args["sortBy"].(string)
	sortOrder, _ := args["sortOrder"].(string)
	return filter, models.ShipmentSort{Field: models.SortField(sortBy), Order: models.SortOrder(sortOrder)}, nil
}

func (r *Resolver) ListShipments(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.identity(p.Context); err != nil {
		return r.fail(p, err)
	}
	filter, sort, err := listParams(p.Args)
	if err != nil {
		return r.fail(p, err)
	}
	shipments, err := r.queries.List(p.Context, filter, sort)
	if err != nil {
		return r.fail(p, err)
	}
	return shipments, nil
}

func (r *Resolver) GetShipment(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.identity(p.Context); err != nil {
		return r.fail(p, err)
	}
	id, _ := p.Args["id"].(string)
	shipment, err := r.queries.Get(p.Context, id)
	if err != nil {
		return r.fail(p, err)
	}
	if shipment == nil {
		return nil, nil
	}
	return shipment, nil
}

func (r *Resolver) ListShipmentsPaginated(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.identity(p.Context); err != nil {
		return r.fail(p, err)
	}
	filter, sort, err := listParams(p.Args)
	if err != nil {
		return r.fail(p, err)
	}
	page, _ := p.Args["page"].(int)
	limit, _ := p.Args["limit"].(int)

	conn, err := r.queries.Paginate(p.Context, page, limit, filter, sort)
	if err != nil {
		return r.fail(p, err)
	}
	return conn, nil
}

func (r *Resolver) Me(p graphql.ResolveParams) (interface{}, error) {
	identity, err := r.identity(p.Context)
	if err != nil {
		return r.fail(p, err)
	}
	return &models.AuthPayload{ID: identity.ID, Username: identity.Username, Role: identity.Role}, nil
}

func (r *Resolver) Login(p graphql.ResolveParams) (interface{}, error) {
	username, _ := p.Args["username"].(string)
	password, _ := p.Args["password"].(string)
	payload, err := r.auth.Login(p.Context, username, password)
	if err != nil {
		return r.fail(p, err)
	}
	return payload, nil
}

func (r *Resolver) Register(p graphql.ResolveParams) (interface{}, error) {
	username, _ := p.Args["username"].(string)
	password, _ := p.Args["password"].(string)
	role, _ := p.Args["role"].(string)
	payload, err := r.auth.Register(p.Context, username, password, models.Role(role))
	if err != nil {
		return r.fail(p, err)
	}
	return payload, nil
}

func (r *Resolver) AddShipment(p graphql.ResolveParams) (interface{}, error) {
	identity, err := r.auth.RequireAdmin(TokenFrom(p.Context))
	if err != nil {
		return r.fail(p, err)
	}
	var input models.ShipmentInput
	if err := decodeArg(p.Args, "input", &input); err != nil {
		return r.fail(p, err)
	}
	shipment, err := r.shipments.Create(p.Context, identity, input)
	if err != nil {
		return r.fail(p, err)
	}
	return shipment, nil
}

func (r *Resolver) UpdateShipment(p graphql.ResolveParams) (interface{}, error) {
	identity, err := r.auth.RequireAdmin(TokenFrom(p.Context))
	if err != nil {
		return r.fail(p, err)
	}
	id, _ := p.Args["id"].(string)
	var patch models.ShipmentPatch
	if err := decodeArg(p.Args, "input", &patch); err != nil {
		return r.fail(p, err)
	}
	shipment, err := r.shipments.Update(p.Context, identity, id, patch)
	if err != nil {
		return r.fail(p, err)
	}
	return shipment, nil
}

func (r *Resolver) DeleteShipment(p graphql.ResolveParams) (interface{}, error) {
	identity, err := r.auth.RequireAdmin(TokenFrom(p.Context))
	if err != nil {
		return r.fail(p, err)
	}
	id, _ := p.Args["id"].(string)
	ok, err := r.shipments.Delete(p.Context, identity, id)
	if err != nil {
		return r.fail(p, err)
	}
	return ok, nil
}
