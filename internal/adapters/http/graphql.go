package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"casemap/internal/core/domain"
	"casemap/internal/pkg/geospatial"
)

// buildSchema creates the read-only GraphQL schema over live sessions
// and the geometry helpers.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	countsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OverlayCounts",
		Fields: graphql.Fields{
			"markers":        &graphql.Field{Type: graphql.Int},
			"circles":        &graphql.Field{Type: graphql.Int},
			"polygons":       &graphql.Field{Type: graphql.Int},
			"polylines":      &graphql.Field{Type: graphql.Int},
			"geojson_layers": &graphql.Field{Type: graphql.Int},
			"drawn":          &graphql.Field{Type: graphql.Int},
			"arrow_layers":   &graphql.Field{Type: graphql.Int},
			"investigations": &graphql.Field{Type: graphql.Int},
			"total": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(domain.OverlayCounts); ok {
						return c.Total(), nil
					}
					return 0, nil
				},
			},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"ready":            &graphql.Field{Type: graphql.Boolean},
			"revision":         &graphql.Field{Type: graphql.Int},
			"draw_state":       &graphql.Field{Type: graphql.String},
			"timeline_running": &graphql.Field{Type: graphql.Boolean},
			"counts":           &graphql.Field{Type: countsType},
		},
	})

	recordType := graphql.NewObject(graphql.ObjectConfig{
		Name: "InvestigationRecord",
		Fields: graphql.Fields{
			"layer":       &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"type":        &graphql.Field{Type: graphql.String},
		},
	})

	coordArgs := graphql.FieldConfigArgument{
		"from_lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"from_lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"to_lat":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"to_lon":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
	}

	pointsFromArgs := func(p graphql.ResolveParams) (domain.GeoPoint, domain.GeoPoint) {
		from := domain.GeoPoint{Lat: p.Args["from_lat"].(float64), Lon: p.Args["from_lon"].(float64)}
		to := domain.GeoPoint{Lat: p.Args["to_lat"].(float64), Lon: p.Args["to_lon"].(float64)}
		return from, to
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"sessions": &graphql.Field{
				Type:        graphql.NewList(sessionType),
				Description: "List all live map sessions",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sessions := deps.Sessions.List()
					views := make([]sessionView, 0, len(sessions))
					for _, s := range sessions {
						views = append(views, viewOf(s))
					}
					return views, nil
				},
			},
			"session": &graphql.Field{
				Type:        sessionType,
				Description: "Get one session by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := deps.Sessions.Get(p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return viewOf(s), nil
				},
			},
			"investigationRecords": &graphql.Field{
				Type:        graphql.NewList(recordType),
				Description: "Case markers of one session",
				Args: graphql.FieldConfigArgument{
					"session_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := deps.Sessions.Get(p.Args["session_id"].(string))
					if err != nil {
						return nil, err
					}
					return s.InvestigationRecords(), nil
				},
			},
			"bearing": &graphql.Field{
				Type:        graphql.Float,
				Description: "Initial bearing between two points, degrees clockwise from north",
				Args:        coordArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					from, to := pointsFromArgs(p)
					return geospatial.Bearing(from, to), nil
				},
			},
			"midpoint": &graphql.Field{
				Type:        geoPointType,
				Description: "Planar midpoint between two points",
				Args:        coordArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					from, to := pointsFromArgs(p)
					return geospatial.Midpoint(from, to), nil
				},
			},
			"distance": &graphql.Field{
				Type:        graphql.Float,
				Description: "Great-circle distance in meters",
				Args:        coordArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					from, to := pointsFromArgs(p)
					return geospatial.Haversine(from, to), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
