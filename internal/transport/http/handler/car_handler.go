package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"citydrive-motors/internal/domain"
	"citydrive-motors/internal/service"
	"citydrive-motors/internal/storage"
	mdw "citydrive-motors/internal/transport/http/middleware"
	resp "citydrive-motors/internal/transport/http/response"
)

type CarHandler struct {
	cars     *service.CarService
	store    *storage.DiskStore
	maxFiles int
}

func NewCarHandler(cars *service.CarService, store *storage.DiskStore, maxFiles int) *CarHandler {
	return &CarHandler{cars: cars, store: store, maxFiles: maxFiles}
}

// Mount wires the public routes on g and the owner-scoped ones on authed,
// a group already behind the JWT middleware.
func (h *CarHandler) Mount(g, authed *gin.RouterGroup) {
	g.GET("/cars", h.list)
	authed.GET("/cars/my-cars", h.listMine)
	g.GET("/cars/:id", h.get)
	authed.POST("/cars", h.create)
	authed.PATCH("/cars/:id", h.update)
	authed.DELETE("/cars/:id", h.remove)
}

func (h *CarHandler) list(c *gin.Context) {
	cars, err := h.cars.FindAll(c.Request.Context())
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, cars)
}

func (h *CarHandler) listMine(c *gin.Context) {
	cars, err := h.cars.FindMine(c.Request.Context(), mdw.UserID(c))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, cars)
}

func (h *CarHandler) get(c *gin.Context) {
	car, err := h.cars.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, car)
}

// create takes a multipart form: text fields plus up to maxFiles image
// files under "images". Files are written to the store first; the service
// only ever sees their reference strings.
func (h *CarHandler) create(c *gin.Context) {
	var in domain.CreateCarInput
	if err := c.ShouldBind(&in); err != nil {
		resp.BadRequest(c, "invalid form data: "+err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err == nil {
		files := form.File["images"]
		if len(files) > h.maxFiles {
			resp.Fail(c, &domain.ValidationError{Fields: map[string]string{
				"images": fmt.Sprintf("at most %d images allowed", h.maxFiles),
			}})
			return
		}
		for _, fh := range files {
			url, err := h.store.Save(fh)
			if err != nil {
				resp.Fail(c, err)
				return
			}
			in.Images = append(in.Images, url)
		}
	}

	car, err := h.cars.Create(c.Request.Context(), &in, mdw.UserID(c))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, car)
}

func (h *CarHandler) update(c *gin.Context) {
	var in domain.UpdateCarInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	car, err := h.cars.Update(c.Request.Context(), c.Param("id"), &in, mdw.UserID(c))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, car)
}

func (h *CarHandler) remove(c *gin.Context) {
	if err := h.cars.Remove(c.Request.Context(), c.Param("id"), mdw.UserID(c)); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}
