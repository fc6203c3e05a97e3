package catalog

import "context"

type searchUseCase struct {
	service Service
}

func NewSearchUseCase(service Service) SearchUseCase {
	return &searchUseCase{service: service}
}

func (uc *searchUseCase) SearchProducts(ctx context.Context, req SearchProductsRequest) (*SearchProductsResponse, error) {
	found, notFoundIDs, err := uc.service.GetProductsByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	products := make([]ProductDTO, len(found))
	for i, p := range found {
		products[i] = toProductDTO(p)
	}

	return &SearchProductsResponse{
		Products:    products,
		NotFoundIDs: notFoundIDs,
	}, nil
}
