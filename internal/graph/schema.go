package graph

import (
	"time"

	"tms/internal/models"

	"github.com/graphql-go/graphql"
)

// TimeLayout is how every timestamp leaves the API: UTC with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func timeField(get func(*models.Shipment) time.Time) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.String),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return formatTime(get(shipmentSource(p))), nil
		},
	}
}

func shipmentSource(p graphql.ResolveParams) *models.Shipment {
	switch s := p.Source.(type) {
	case *models.Shipment:
		return s
	case models.Shipment:
		return &s
	}
	return &models.Shipment{}
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return string(p.Source.(*models.AuthPayload).Role), nil
			},
		},
		"token": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if token := p.Source.(*models.AuthPayload).Token; token != "" {
					return token, nil
				}
				return nil, nil
			},
		},
	},
})

var dimensionsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Dimensions",
	Fields: graphql.Fields{
		"length": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"width":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"height": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var shipmentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Shipment",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"trackingNumber":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"itemDescription": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"category":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"quantity":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"weight":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"dimensions":      &graphql.Field{Type: graphql.NewNonNull(dimensionsType)},
		"origin":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"destination":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"carrier":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"status": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return string(shipmentSource(p).Status), nil
			},
		},
		"priority": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return string(shipmentSource(p).Priority), nil
			},
		},
		"shipDate":          timeField(func(s *models.Shipment) time.Time { return s.ShipDate }),
		"estimatedDelivery": timeField(func(s *models.Shipment) time.Time { return s.EstimatedDelivery }),
		"actualDelivery": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if t := shipmentSource(p).ActualDelivery; t != nil {
					return formatTime(*t), nil
				}
				return nil, nil
			},
		},
		"cost":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"insurance":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"signature":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"customerName": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"notes": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if n := shipmentSource(p).Notes; n != nil {
					return *n, nil
				}
				return nil, nil
			},
		},
		"createdAt": timeField(func(s *models.Shipment) time.Time { return s.CreatedAt }),
		"updatedAt": timeField(func(s *models.Shipment) time.Time { return s.UpdatedAt }),
	},
})

var shipmentConnectionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ShipmentConnection",
	Fields: graphql.Fields{
		"shipments":       &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(shipmentType)))},
		"totalCount":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"hasNextPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"hasPreviousPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"currentPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalPages":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var dimensionsInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "DimensionsInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"length": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		"width":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		"height": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
	},
})

// shipmentInputFields lists the writable fields. Create requires all but
// notes; update makes every field optional.
func shipmentInputFields(required bool) graphql.InputObjectConfigFieldMap {
	wrap := func(t graphql.Input) graphql.Input {
		if required {
			return graphql.NewNonNull(t)
		}
		return t
	}
	return graphql.InputObjectConfigFieldMap{
		"itemDescription": &graphql.InputObjectFieldConfig{Type: wrap(graphql.String)},
		"category":        &graphql.InputObjectFieldConfig{Type: wrap(graphql.String)},
		"quantity":        &graphql.InputObjectFieldConfig{Type: wrap(graphql.Int)},
		"weight":          &graphql.InputObjectFieldConfig{Type: wrap(graphql.String)},
		"dimensions":      &graphql.InputObjectFieldConfig{Type: wrap(dimensionsInput)},
		"origin":          &graphql.InputObjectFieldConfig{Type: wrap(graphql.String)},
		"destination":     &graphql.InputObjectFieldConfig{Type: wrap(graphql.String)},
		"carrier":         &graphql.InputObjectFieldConfig{Type: wrap(graphql.String)},
		"status":          &graphql.InputObjectFieldConfig{Type: wrap(graphql.String)},
		"priority":        &graphql.InputObjectFieldConfig{Type: wrap(graphql.String)},
		"cost":            &graphql.InputObjectFieldConfig{Type: wrap(graphql.String)},
		"insurance":       &graphql.InputObjectFieldConfig{Type: wrap(graphql.Boolean)},
		"signature":       &graphql.InputObjectFieldConfig{Type: wrap(graphql.Boolean)},
		"customerName":    &graphql.InputObjectFieldConfig{Type: wrap(graphql.String)},
		"notes":           &graphql.InputObjectFieldConfig{Type: graphql.String},
	}
}

var shipmentInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name:   "ShipmentInput",
	Fields: shipmentInputFields(true),
})

var updateShipmentInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name:   "UpdateShipmentInput",
	Fields: shipmentInputFields(false),
})

var shipmentFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ShipmentFilter",
	Fields: graphql.InputObjectConfigFieldMap{
		"trackingNumber":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"itemDescription": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"category":        &graphql.InputObjectFieldConfig{Type: graphql.String},
		"carrier":         &graphql.InputObjectFieldConfig{Type: graphql.String},
		"status":          &graphql.InputObjectFieldConfig{Type: graphql.String},
		"priority":        &graphql.InputObjectFieldConfig{Type: graphql.String},
		"origin":          &graphql.InputObjectFieldConfig{Type: graphql.String},
		"destination":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"customerName":    &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var sortFieldEnum = func() *graphql.Enum {
	values := graphql.EnumValueConfigMap{}
	for _, f := range models.SortFields {
		values[string(f)] = &graphql.EnumValueConfig{Value: string(f)}
	}
	return graphql.NewEnum(graphql.EnumConfig{Name: "SortField", Values: values})
}()

var sortOrderEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "SortOrder",
	Values: graphql.EnumValueConfigMap{
		string(models.SortAsc):  &graphql.EnumValueConfig{Value: string(models.SortAsc)},
		string(models.SortDesc): &graphql.EnumValueConfig{Value: string(models.SortDesc)},
	},
})

func listArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"filter":    &graphql.ArgumentConfig{Type: shipmentFilterInput},
		"sortBy":    &graphql.ArgumentConfig{Type: sortFieldEnum},
		"sortOrder": &graphql.ArgumentConfig{Type: sortOrderEnum},
	}
}

// NewSchema builds the executable schema on top of r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	paginatedArgs := listArgs()
	paginatedArgs["page"] = &graphql.ArgumentConfig{Type: graphql.Int}
	paginatedArgs["limit"] = &graphql.ArgumentConfig{Type: graphql.Int}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"listShipments": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(shipmentType))),
				Args:    listArgs(),
				Resolve: r.ListShipments,
			},
			"getShipment": &graphql.Field{
				Type: shipmentType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.GetShipment,
			},
			"listShipmentsPaginated": &graphql.Field{
				Type:    graphql.NewNonNull(shipmentConnectionType),
				Args:    paginatedArgs,
				Resolve: r.ListShipmentsPaginated,
			},
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.Me,
			},
		},
	})

	credentials := graphql.FieldConfigArgument{
		"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}
	registerArgs := graphql.FieldConfigArgument{
		"username": credentials["username"],
		"password": credentials["password"],
		"role":     &graphql.ArgumentConfig{Type: graphql.String},
	}

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Args:    credentials,
				Resolve: r.Login,
			},
			"register": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Args:    registerArgs,
				Resolve: r.Register,
			},
			"addShipment": &graphql.Field{
				Type: graphql.NewNonNull(shipmentType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(shipmentInput)},
				},
				Resolve: r.AddShipment,
			},
			"updateShipment": &graphql.Field{
				Type: graphql.NewNonNull(shipmentType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateShipmentInput)},
				},
				Resolve: r.UpdateShipment,
			},
			"deleteShipment": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.DeleteShipment,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
