package mockapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/filter"
)

const maxUpload = 5 << 20

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Server serves the listings API from a Store and an Auth table.
type Server struct {
	store  Store
	auth   *Auth
	logger *slog.Logger

	mu      sync.RWMutex
	uploads map[string][]byte
}

// NewServer wires the handlers. A nil logger discards.
func NewServer(store Store, auth *Auth, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{store: store, auth: auth, logger: logger, uploads: make(map[string][]byte)}
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	hostels := router.Group("/api/hostels")
	hostels.GET("", s.listHostels)
	hostels.GET("/search", s.searchHostels)
	hostels.GET("/:id", s.getHostel)
	hostels.POST("", s.requireUser, s.createHostel)

	auth := router.Group("/api/auth")
	auth.POST("/login", s.login)
	auth.POST("/register", s.register)
	auth.POST("/logout", s.requireUser, s.logout)
	auth.POST("/profile", s.requireUser, s.updateProfile)
	auth.GET("/verify", s.requireUser, s.verify)

	router.GET("/uploads/:name", s.serveUpload)
	router.HEAD("/uploads/:name", s.serveUpload)
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

func invalid(c *gin.Context, errs map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
}

func listingsBody(list []api.Listing) gin.H {
	return gin.H{"success": true, "data": list, "count": len(list)}
}

// listHostels supports the same city, type, max_price and amenities filters
// as the client.
func (s *Server) listHostels(c *gin.Context) {
	all, err := s.store.List(c)
	if err != nil {
		s.logger.Error("list hostels", "error", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	criteria := filter.Criteria{
		Category:  c.Query("type"),
		City:      c.Query("city"),
		Amenities: c.QueryArray("amenities"),
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "max_price must be a whole number")
			return
		}
		criteria.MaxPrice = filter.PriceCeiling(v)
	}
	c.JSON(http.StatusOK, listingsBody(filter.Apply(all, criteria)))
}

func (s *Server) searchHostels(c *gin.Context) {
	all, err := s.store.List(c)
	if err != nil {
		s.logger.Error("search hostels", "error", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	query := c.Query("query")
	category := c.DefaultQuery("type", filter.CategoryAll)
	found := filter.Apply(all, filter.Criteria{Query: query, Category: category})
	body := listingsBody(found)
	body["query"] = query
	body["property_type"] = category
	c.JSON(http.StatusOK, body)
}

func (s *Server) getHostel(c *gin.Context) {
	l, err := s.store.Get(c, c.Param("id"))
	if errors.Is(err, api.ErrNotFound) {
		fail(c, http.StatusNotFound, "Hostel not found")
		return
	}
	if err != nil {
		s.logger.Error("get hostel", "id", c.Param("id"), "error", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": l})
}

func (s *Server) createHostel(c *gin.Context) {
	l, errs := s.listingFromRequest(c)
	if len(errs) > 0 {
		invalid(c, errs)
		return
	}
	created, err := s.store.Create(c, l)
	if err != nil {
		s.logger.Error("create hostel", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to add hostel")
		return
	}
	s.logger.Info("hostel created", "id", created.ID, "name", created.Name)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Hostel added successfully!", "data": created})
}

func (s *Server) listingFromRequest(c *gin.Context) (api.Listing, map[string]string) {
	errs := map[string]string{}
	l := api.Listing{
		Name:        strings.TrimSpace(c.PostForm("name")),
		City:        strings.TrimSpace(c.PostForm("city")),
		Location:    strings.TrimSpace(c.PostForm("location")),
		Category:    strings.ToLower(strings.TrimSpace(c.PostForm("type"))),
		Description: strings.TrimSpace(c.PostForm("description")),
		Address:     strings.TrimSpace(c.PostForm("address")),
		Contact:     strings.TrimSpace(c.PostForm("contact")),
		Image:       strings.TrimSpace(c.PostForm("image_url")),
	}
	for field, value := range map[string]string{"name": l.Name, "city": l.City, "location": l.Location} {
		if value == "" {
			errs[field] = "Required"
		}
	}
	switch l.Category {
	case "hostel", "pg", "apartment":
	default:
		errs["type"] = "Choose hostel, pg or apartment"
	}
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price <= 0 {
		errs["price"] = "Enter the monthly rent"
	}
	l.Price = price
	if raw := c.PostForm("original_price"); raw != "" {
		orig, err := strconv.ParseFloat(raw, 64)
		if err != nil || orig < 0 {
			errs["original_price"] = "Enter a number or leave empty"
		}
		l.OriginalPrice = orig
	}
	if amenities, ok := c.GetPostFormArray("amenities"); ok {
		l.Amenities = amenities
	}

	if fh, err := c.FormFile("image"); err == nil {
		if fh.Size > maxUpload {
			errs["image"] = "Image must be 5MB or smaller"
			return l, errs
		}
		f, err := fh.Open()
		if err != nil {
			errs["image"] = "Cannot read image"
			return l, errs
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			errs["image"] = "Cannot read image"
			return l, errs
		}
		name := newID() + path.Ext(fh.Filename)
		s.mu.Lock()
		s.uploads[name] = data
		s.mu.Unlock()
		l.Image = "/uploads/" + name
	}
	return l, errs
}

func (s *Server) serveUpload(c *gin.Context) {
	s.mu.RLock()
	data, ok := s.uploads[c.Param("name")]
	s.mu.RUnlock()
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// Auth

const (
	userKey  = "user"
	tokenKey = "token"
)

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (s *Server) requireUser(c *gin.Context) {
	token := bearerToken(c)
	user, err := s.auth.Lookup(token)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	c.Set(userKey, user)
	c.Set(tokenKey, token)
	c.Next()
}

func (s *Server) login(c *gin.Context) {
	var creds api.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	token, user, err := s.auth.Login(creds.Email, creds.Password)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	redirect := "/"
	if user.UserType == "owner" {
		redirect = "/owner-dashboard"
	}
	s.logger.Info("login", "email", user.Email)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Login successful!",
		"redirect":     redirect,
		"access_token": token,
		"user":         user,
	})
}

func (s *Server) register(c *gin.Context) {
	var reg api.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	errs := map[string]string{}
	if strings.TrimSpace(reg.Name) == "" {
		errs["name"] = "Name is required"
	}
	if !emailPattern.MatchString(strings.TrimSpace(reg.Email)) {
		errs["email"] = "Please enter a valid email address"
	}
	if len(reg.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters long"
	}
	if reg.Password != reg.ConfirmPassword {
		errs["confirm_password"] = "Passwords do not match"
	}
	if len(errs) > 0 {
		invalid(c, errs)
		return
	}
	_, err := s.auth.Register(api.User{Name: strings.TrimSpace(reg.Name), Email: reg.Email}, reg.Password)
	if errors.Is(err, ErrEmailTaken) {
		invalid(c, map[string]string{"email": "Email already registered"})
		return
	}
	if err != nil {
		s.logger.Error("register", "error", err)
		fail(c, http.StatusInternalServerError, "Registration failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Registration successful! Please login.",
		"redirect": "/login",
	})
}

func (s *Server) logout(c *gin.Context) {
	s.auth.Logout(c.GetString(tokenKey))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "You have been logged out"})
}

func (s *Server) updateProfile(c *gin.Context) {
	var p api.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.City = strings.TrimSpace(p.City)

	errs := map[string]string{}
	if p.Name == "" {
		errs["name"] = "Name is required"
	}
	if p.Phone != "" && !phonePattern.MatchString(p.Phone) {
		errs["phone"] = "Please enter a valid 10-digit phone number"
	}
	if len(errs) > 0 {
		invalid(c, errs)
		return
	}
	user, err := s.auth.UpdateProfile(c.GetString(tokenKey), p)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully!", "user": user})
}

func (s *Server) verify(c *gin.Context) {
	user, _ := c.Get(userKey)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
