package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"campus-connect/models"
	"campus-connect/services"
	"campus-connect/utils"

	"github.com/gorilla/mux"
)

// ProductController handles product-related requests
type ProductController struct {
	Catalog *services.CatalogService
	Files   utils.FileStore
}

// NewProductController creates a new ProductController
func NewProductController(catalog *services.CatalogService, files utils.FileStore) *ProductController {
	return &ProductController{Catalog: catalog, Files: files}
}

var errStorage = errors.New("failed to save file")

// CreateProduct lists a new product. It accepts JSON with image URLs or a
// multipart form with up to five "images" files.
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.ProductCreation
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		if req, err = pc.parseMultipartProduct(w, r); err != nil {
			if errors.Is(err, errStorage) {
				writeError(w, err)
				return
			}
			badRequest(w, err.Error())
			return
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	product, err := pc.Catalog.Create(r.Context(), user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (pc *ProductController) parseMultipartProduct(w http.ResponseWriter, r *http.Request) (models.ProductCreation, error) {
	var req models.ProductCreation
	r.Body = http.MaxBytesReader(w, r.Body, utils.MaxImages*utils.MaxImageSize+(1<<20))
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return req, errors.New("failed to parse multipart form")
	}

	req.Title = r.FormValue("title")
	req.Description = r.FormValue("description")
	req.Category = r.FormValue("category")
	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, errors.New("invalid price")
		}
		req.Price = price
	}

	files := r.MultipartForm.File["images"]
	if len(files) > utils.MaxImages {
		return req, fmt.Errorf("at most %d images are allowed", utils.MaxImages)
	}
	for _, handler := range files {
		if handler.Size > utils.MaxImageSize {
			return req, fmt.Errorf("image %s exceeds 5MB", handler.Filename)
		}
		if !utils.IsImageFile(handler.Filename) {
			return req, errors.New("only image files are allowed")
		}
		file, err := handler.Open()
		if err != nil {
			return req, errors.New("failed to retrieve file")
		}
		url, err := pc.Files.Save(r.Context(), handler.Filename, file)
		file.Close()
		if err != nil {
			return req, fmt.Errorf("%w: %v", errStorage, err)
		}
		req.Images = append(req.Images, url)
	}
	return req, nil
}

// GetProducts lists products with filters, sort and pagination
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := services.ListParams{
		Category:   q.Get("category"),
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		PriceRange: q.Get("price_range"),
		Sort:       q.Get("sort"),
	}

	var err error
	if params.MinPrice, err = floatParam(q.Get("min_price")); err != nil {
		badRequest(w, "Invalid min_price")
		return
	}
	if params.MaxPrice, err = floatParam(q.Get("max_price")); err != nil {
		badRequest(w, "Invalid max_price")
		return
	}
	if params.Page, err = intParam(q.Get("page")); err != nil {
		badRequest(w, "Invalid page")
		return
	}
	if params.Limit, err = intParam(q.Get("limit")); err != nil {
		badRequest(w, "Invalid limit")
		return
	}

	page, err := pc.Catalog.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	product, err := pc.Catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// GetMyProducts returns every listing of the authenticated user
func (pc *ProductController) GetMyProducts(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	products, err := pc.Catalog.ListMine(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetCategories returns the distinct categories
func (pc *ProductController) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := pc.Catalog.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// UpdateProduct edits a listing owned by the authenticated user
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var update models.ProductUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	product, err := pc.Catalog.Update(r.Context(), user, mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a listing owned by the authenticated user
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := pc.Catalog.Delete(r.Context(), user, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// MarkSold closes a listing without a purchase
func (pc *ProductController) MarkSold(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	product, err := pc.Catalog.MarkSold(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func floatParam(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
