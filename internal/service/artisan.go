package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/transform"
	"github.com/artisania/storefront/pkg/cache"
)

const (
	artisansEndpoint      = "/api/artisans"
	adminArtisansEndpoint = "/api/admin/artisans"
	profileImageEndpoint  = "/api/user/profile-image"
	coverImageEndpoint    = "/api/user/cover-image"
	registerArtisanPath   = "/auth/register-artisan"
)

type ArtisanFilter struct {
	DisplayName string
	PageParams
}

func (f ArtisanFilter) query() url.Values {
	q := url.Values{}
	if f.DisplayName != "" {
		q.Set("displayName", f.DisplayName)
	}
	f.apply(q)
	return q
}

type ArtisanProfileRequest struct {
	DisplayName     string `json:"displayName"`
	Bio             string `json:"bio"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	CoverImageURL   string `json:"coverImageUrl,omitempty"`
}

// RegisterArtisanRequest is submitted as multipart form data so the optional
// image files ride along with the account fields.
type RegisterArtisanRequest struct {
	Email        string
	Password     string
	DisplayName  string
	Bio          string
	ProfileImage io.Reader
	ProfileName  string
	CoverImage   io.Reader
	CoverName    string
}

type RegisterArtisanResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    api.User          `json:"user"`
	Profile transform.Artisan `json:"artisanProfile"`
}

// ArtisanWithProducts pairs a profile with its product page; ProductCount is
// taken from the page's TotalElements.
type ArtisanWithProducts struct {
	Artisan  transform.Artisan
	Products api.Page[transform.Product]
}

// ArtisanService reads artisan profiles through the shared cache and manages
// the caller's own profile, including the image upload endpoints.
type ArtisanService struct {
	client   *api.Client
	cache    cache.Cache
	tr       *transform.Transformer
	products *ProductService
	log      *zap.Logger
}

func NewArtisanService(client *api.Client, c cache.Cache, tr *transform.Transformer, products *ProductService, log *zap.Logger) *ArtisanService {
	return &ArtisanService{client: client, cache: c, tr: tr, products: products, log: log}
}

// List accepts both response forms: a bare array carries no pagination, so it
// becomes a single page holding everything.
func (s *ArtisanService) List(ctx context.Context, f ArtisanFilter) (page api.Page[transform.Artisan], err error) {
	raw, err := fetchRaw(ctx, s.client, s.cache, s.log, prefixArtisans, artisansEndpoint, f.query())
	if err != nil {
		return page, fmt.Errorf("failed to fetch artisans: %w", err)
	}

	decoded, err := api.DecodeList[api.ArtisanProfile](raw)
	if err != nil {
		return page, err
	}

	valid := decoded.Items[:0:0]
	for _, a := range decoded.Items {
		if transform.ValidArtisan(a) {
			valid = append(valid, a)
		} else {
			s.log.Warn("dropping invalid artisan entity", zap.Int64("id", a.ID))
		}
	}

	items := s.tr.Artisans(valid)
	if decoded.Meta != nil {
		return api.PageWithMeta(items, *decoded.Meta), nil
	}
	return api.Page[transform.Artisan]{
		Content:       items,
		TotalElements: len(items),
		TotalPages:    1,
		Size:          len(items),
		First:         true,
		Last:          true,
		Empty:         len(items) == 0,
	}, nil
}

func (s *ArtisanService) byPath(ctx context.Context, path string) (resp transform.Artisan, err error) {
	raw, err := fetchRaw(ctx, s.client, s.cache, s.log, prefixArtisans, path, nil)
	if err != nil {
		return resp, fmt.Errorf("failed to fetch artisan: %w", err)
	}

	b, err := decodeCached[api.ArtisanProfile](raw)
	if err != nil {
		return resp, err
	}
	if !transform.ValidArtisan(b) {
		return resp, fmt.Errorf("invalid artisan data received from server")
	}
	return s.tr.Artisan(b), nil
}

func (s *ArtisanService) ByID(ctx context.Context, id int64) (transform.Artisan, error) {
	return s.byPath(ctx, fmt.Sprintf("%s/%d", artisansEndpoint, id))
}

func (s *ArtisanService) ByUserID(ctx context.Context, userID int64) (transform.Artisan, error) {
	return s.byPath(ctx, fmt.Sprintf("%s/user/%d", artisansEndpoint, userID))
}

func (s *ArtisanService) Search(ctx context.Context, query string, f ArtisanFilter) (api.Page[transform.Artisan], error) {
	query = strings.TrimSpace(query)
	if query != "" {
		f.DisplayName = query
	}
	return s.List(ctx, f)
}

// WithProducts fetches the profile and its product page concurrently.
func (s *ArtisanService) WithProducts(ctx context.Context, id int64, p PageParams) (resp ArtisanWithProducts, err error) {
	type artisanResult struct {
		artisan transform.Artisan
		err     error
	}
	artisanCh := make(chan artisanResult, 1)
	go func() {
		a, aerr := s.ByID(ctx, id)
		artisanCh <- artisanResult{a, aerr}
	}()

	products, perr := s.products.ByArtisan(ctx, id, ProductFilter{PageParams: p})
	ar := <-artisanCh

	if ar.err != nil {
		return resp, ar.err
	}
	if perr != nil {
		return resp, perr
	}

	ar.artisan.ProductCount = products.TotalElements
	return ArtisanWithProducts{Artisan: ar.artisan, Products: products}, nil
}

// Current returns the caller's own profile. Not cached: it is personal data
// behind the bearer token, not shared catalog state.
func (s *ArtisanService) Current(ctx context.Context) (resp transform.Artisan, err error) {
	var b api.ArtisanProfile
	if err := s.client.Get(ctx, userArtisanEndpoint, nil, &b); err != nil {
		return resp, fmt.Errorf("failed to fetch own artisan profile: %w", err)
	}
	return s.tr.Artisan(b), nil
}

func (s *ArtisanService) CreateProfile(ctx context.Context, req ArtisanProfileRequest) (resp transform.Artisan, err error) {
	var b api.ArtisanProfile
	if err := s.client.Post(ctx, userArtisanEndpoint, req, &b); err != nil {
		return resp, fmt.Errorf("failed to create artisan profile: %w", err)
	}
	s.cache.ClearPrefix(ctx, prefixArtisans)
	return s.tr.Artisan(b), nil
}

func (s *ArtisanService) UpdateCurrent(ctx context.Context, req ArtisanProfileRequest) (resp transform.Artisan, err error) {
	var b api.ArtisanProfile
	if err := s.client.Put(ctx, userArtisanEndpoint, req, &b); err != nil {
		return resp, fmt.Errorf("failed to update artisan profile: %w", err)
	}
	s.cache.ClearPrefix(ctx, prefixArtisans)
	return s.tr.Artisan(b), nil
}

func (s *ArtisanService) DeleteCurrent(ctx context.Context) error {
	if err := s.client.Delete(ctx, userArtisanEndpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to delete artisan profile: %w", err)
	}
	s.cache.ClearPrefix(ctx, prefixArtisans)
	return nil
}

func (s *ArtisanService) AdminUpdate(ctx context.Context, id int64, req ArtisanProfileRequest) (resp transform.Artisan, err error) {
	var b api.ArtisanProfile
	if err := s.client.Put(ctx, fmt.Sprintf("%s/%d", adminArtisansEndpoint, id), req, &b); err != nil {
		return resp, fmt.Errorf("failed to update artisan %d: %w", id, err)
	}
	s.cache.ClearPrefix(ctx, prefixArtisans)
	return s.tr.Artisan(b), nil
}

func (s *ArtisanService) AdminDelete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", adminArtisansEndpoint, id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete artisan %d: %w", id, err)
	}
	s.cache.ClearPrefix(ctx, prefixArtisans)
	return nil
}

// uploadImage posts a single file under the "file" field and returns whichever
// URL field the backend populated.
func (s *ArtisanService) uploadImage(ctx context.Context, path, filename string, file io.Reader) (string, error) {
	var out struct {
		ImageURL        string `json:"imageUrl"`
		ProfileImageURL string `json:"profileImageUrl"`
		CoverImageURL   string `json:"coverImageUrl"`
	}
	if err := s.client.Upload(ctx, path, "file", filename, file, nil, &out); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	s.cache.ClearPrefix(ctx, prefixArtisans)

	switch {
	case out.ImageURL != "":
		return out.ImageURL, nil
	case out.ProfileImageURL != "":
		return out.ProfileImageURL, nil
	default:
		return out.CoverImageURL, nil
	}
}

func (s *ArtisanService) UploadProfileImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	return s.uploadImage(ctx, profileImageEndpoint, filename, file)
}

func (s *ArtisanService) UploadCoverImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	return s.uploadImage(ctx, coverImageEndpoint, filename, file)
}

// Register creates an artisan account in one multipart request. The response
// carries a token, so a successful registration is also a login.
func (s *ArtisanService) Register(ctx context.Context, req RegisterArtisanRequest) (resp RegisterArtisanResponse, err error) {
	fields := map[string]string{
		"email":       req.Email,
		"password":    req.Password,
		"displayName": req.DisplayName,
		"bio":         req.Bio,
	}

	var out struct {
		Message string             `json:"message"`
		Token   string             `json:"token"`
		User    api.User           `json:"user"`
		Profile api.ArtisanProfile `json:"artisanProfile"`
	}

	var files []api.FilePart
	if req.ProfileImage != nil {
		files = append(files, api.FilePart{Field: "profileImage", Filename: req.ProfileName, Reader: req.ProfileImage})
	}
	if req.CoverImage != nil {
		files = append(files, api.FilePart{Field: "coverImage", Filename: req.CoverName, Reader: req.CoverImage})
	}

	if err := s.client.PostForm(ctx, registerArtisanPath, files, fields, &out); err != nil {
		return resp, fmt.Errorf("failed to register artisan: %w", err)
	}

	return RegisterArtisanResponse{
		Message: out.Message,
		Token:   out.Token,
		User:    out.User,
		Profile: s.tr.Artisan(out.Profile),
	}, nil
}
