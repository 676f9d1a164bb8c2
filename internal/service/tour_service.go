package service

import (
	"context"
	"strings"
	"time"

	"github.com/TranHoa21/Mufilika/internal/domain"
	"github.com/TranHoa21/Mufilika/internal/dto"
	"github.com/TranHoa21/Mufilika/internal/infrastructure/media"
	"github.com/TranHoa21/Mufilika/internal/repository"
	pkgdto "github.com/TranHoa21/Mufilika/pkg/dto"
	"github.com/TranHoa21/Mufilika/pkg/errs"
)

type TourServiceImpl struct {
	repository repository.TourRepository
	uploader   media.Uploader
}

func CreateTourService(repository repository.TourRepository, uploader media.Uploader) TourService {
	return &TourServiceImpl{
		repository: repository,
		uploader:   uploader,
	}
}

func convertTourToResponse(data domain.Tour) dto.TourResponse {
	resp := dto.TourResponse{
		ID:          data.ID,
		Name:        data.Name,
		Slug:        data.Slug,
		Address:     data.Address,
		Description: data.Description,
		Duration:    data.Duration,
		MaxGuests:   data.MaxGuests,
		Price:       data.Price,
		ImageURL:    data.ImageURL,
	}

	for _, d := range data.TourDates {
		resp.TourDates = append(resp.TourDates, dto.TourDateResponse{
			ID:        d.ID,
			Departure: d.Departure,
			SeatsLeft: d.SeatsLeft,
		})
	}

	return resp
}

func (s *TourServiceImpl) GetTours(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error) {
	datas, err := s.repository.GetTours(ctx, filter)
	if err != nil {
		return
	}

	var tourResponse []dto.TourResponse
	for _, data := range datas {
		tourResponse = append(tourResponse, convertTourToResponse(data))
	}

	response.Records = tourResponse
	response.Page = filter.Page
	response.Limit = filter.Limit

	return
}

func (s *TourServiceImpl) GetTourBySlug(ctx context.Context, slug string) (resp dto.TourResponse, err error) {
	tour, err := s.repository.GetTourBySlug(ctx, slug)
	if err != nil {
		return
	}

	tour.TourDates, err = s.repository.GetTourDatesByTourID(ctx, tour.ID)
	if err != nil {
		return
	}

	return convertTourToResponse(tour), nil
}

func (s *TourServiceImpl) GetTourDates(ctx context.Context, tourID int64) (resp []dto.TourDateResponse, err error) {
	dates, err := s.repository.GetTourDatesByTourID(ctx, tourID)
	if err != nil {
		return
	}

	for _, d := range dates {
		resp = append(resp, dto.TourDateResponse{
			ID:        d.ID,
			Departure: d.Departure,
			SeatsLeft: d.SeatsLeft,
		})
	}

	return
}

func (s *TourServiceImpl) uploadImage(ctx context.Context, image *ImageUpload) (*string, error) {
	if image == nil {
		return nil, nil
	}
	if !strings.HasPrefix(image.ContentType, "image/") {
		return nil, errs.ErrNotAnImage
	}

	imageURL, err := s.uploader.UploadImage(ctx, image.ContentType, image.Data)
	if err != nil {
		return nil, err
	}

	return &imageURL, nil
}

func (s *TourServiceImpl) AddTour(ctx context.Context, req dto.TourRequest, image *ImageUpload) (resp dto.TourResponse, err error) {
	if req.Name == "" || req.Slug == "" || req.Address == "" || req.Description == "" {
		return resp, errs.ErrClient
	}

	imageURL, err := s.uploadImage(ctx, image)
	if err != nil {
		return resp, err
	}

	now := time.Now().Unix()
	tour := domain.Tour{
		Name:        req.Name,
		Slug:        req.Slug,
		Address:     req.Address,
		Description: req.Description,
		Duration:    req.Duration,
		MaxGuests:   req.MaxGuests,
		Price:       req.Price,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tour.ID, err = s.repository.AddTour(ctx, tour)
	if err != nil {
		return resp, err
	}

	return convertTourToResponse(tour), nil
}

func (s *TourServiceImpl) UpdateTour(ctx context.Context, slug string, req dto.TourRequest, image *ImageUpload) (err error) {
	if req.Name == "" || req.Slug == "" || req.Address == "" || req.Description == "" {
		return errs.ErrClient
	}

	tour, err := s.repository.GetTourBySlug(ctx, slug)
	if err != nil {
		return err
	}

	// A nil image URL keeps the existing one (COALESCE in the update).
	imageURL, err := s.uploadImage(ctx, image)
	if err != nil {
		return err
	}

	tour.Name = req.Name
	tour.Slug = req.Slug
	tour.Address = req.Address
	tour.Description = req.Description
	tour.Duration = req.Duration
	tour.MaxGuests = req.MaxGuests
	tour.Price = req.Price
	tour.ImageURL = imageURL
	tour.UpdatedAt = time.Now().Unix()

	return s.repository.UpdateTour(ctx, tour)
}

func (s *TourServiceImpl) DeleteTour(ctx context.Context, slug string) (err error) {
	return s.repository.DeleteTour(ctx, slug, time.Now().Unix())
}
