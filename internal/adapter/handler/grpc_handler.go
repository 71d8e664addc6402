package handler

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
	"github.com/rl1809/shirt-inventory/internal/core/service"
)

type GRPCHandler struct {
	shirtService *service.ShirtService
}

func NewGRPCHandler(shirtService *service.ShirtService) *GRPCHandler {
	return &GRPCHandler{shirtService: shirtService}
}

// NewGRPCServer returns a server with the shirt service registered and every
// call logged.
func NewGRPCServer(h *GRPCHandler, logger *slog.Logger) *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(logger)))
	RegisterShirtInventoryServer(s, h)
	return s
}

func (h *GRPCHandler) GetShirt(ctx context.Context, req *GetShirtRequest) (*ShirtResponse, error) {
	shirt, err := h.shirtService.GetShirt(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := newShirtResponse(*shirt)
	return &resp, nil
}

func (h *GRPCHandler) AdjustStock(ctx context.Context, req *GRPCAdjustStockRequest) (*ShirtResponse, error) {
	shirt, err := h.shirtService.AdjustStock(ctx, domain.StockAdjustment{
		ShirtID:   req.ID,
		Delta:     req.Amount,
		RequestID: req.RequestID,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	resp := newShirtResponse(*shirt)
	return &resp, nil
}

// ListShirts returns one derived view, or a color/size search when either
// is set.
func (h *GRPCHandler) ListShirts(ctx context.Context, req *ListShirtsRequest) (*ListShirtsResponse, error) {
	var shirts []domain.Shirt
	var err error

	if req.Color != "" || req.Size != "" {
		shirts, err = h.shirtService.SearchShirts(ctx, req.Color, req.Size)
	} else {
		view, ok := domain.ParseStockView(req.View)
		if !ok {
			return nil, toStatus(domain.NewValidationError("view", "unknown view "+req.View))
		}
		shirts, err = h.shirtService.ShirtsByView(ctx, view)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListShirtsResponse{Shirts: newShirtListResponse(shirts)}, nil
}

func toStatus(err error) error {
	return status.Error(grpcCode(err), publicMessage(err))
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.InfoContext(ctx, "grpc request",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}
