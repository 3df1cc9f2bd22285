package opencl

// updateSource is the OpenCL rendition of particles_update.wgsl. Slots are
// 12 floats: position 0..2, color 3..6, velocity 7..9, life 10, emitted 11.
const updateSource = `
uint pcg_hash(uint v)
{
    uint state = v * 747796405u + 2891336453u;
    uint word = ((state >> ((state >> 28u) + 4u)) ^ state) * 277803737u;
    return (word >> 22u) ^ word;
}

float uniform01(uint seed, uint tick, uint slot, uint draw)
{
    uint h = pcg_hash(seed ^ pcg_hash(tick ^ pcg_hash(slot * 8u + draw)));
    return (float)(h >> 8u) * (1.0f / 16777216.0f);
}

__kernel void update_particles(
    const int count,
    const int emitted_count,
    const float dt,
    const float ex,
    const float ey,
    const float ez,
    const float rotation,
    const float life_time,
    const float radius,
    const float spread,
    const float saturation,
    const float speed,
    const float gravity,
    const uint tick,
    const uint seed,
    __global const float* src,
    __global float* dst)
{
    int id = get_global_id(0);
    if (id >= count) {
        return;
    }
    int base = id * 12;
    float p[12];
    for (int i = 0; i < 12; i++) {
        p[i] = src[base + i];
    }

    if (p[10] <= 0.0f) {
        p[3] = 0.0f; p[4] = 0.0f; p[5] = 0.0f; p[6] = 0.0f;
        if (id < emitted_count) {
            if (p[11] == 0.0f) {
                uint slot = (uint)id;
                p[10] = life_time;
                p[11] = 1.0f;
                p[0] = ex; p[1] = ey; p[2] = ez;
                p[3] = uniform01(seed, tick, slot, 0u) * saturation;
                p[4] = uniform01(seed, tick, slot, 1u) * saturation;
                p[5] = uniform01(seed, tick, slot, 2u) * saturation;
                p[6] = 1.0f;

                int quadrant = id % 4;
                if (quadrant > 0) {
                    float angle = (float)quadrant * 2.09439510f + rotation;
                    p[0] += radius * sin(angle);
                    p[2] -= radius * cos(angle);
                    p[3 + quadrant - 1] = 1.0f;
                }

                float vx = 0.0f;
                float vz = 0.0f;
                if (spread != 0.0f) {
                    vx = uniform01(seed, tick, slot, 3u) * spread - spread * 0.5f;
                    vz = uniform01(seed, tick, slot, 4u) * spread - spread * 0.5f;
                }
                p[7] = vx;
                p[8] = speed + uniform01(seed, tick, slot, 5u) * 0.5f;
                p[9] = vz;
            }
        } else {
            p[11] = 0.0f;
        }
    } else {
        p[0] += p[7] * dt;
        p[1] += p[8] * dt;
        p[2] += p[9] * dt;
        float dv = gravity * dt;
        p[7] -= dv;
        p[8] -= dv;
        p[9] -= dv;
        p[10] -= dt;
        if (p[10] < 1.0f) {
            p[6] -= dt;
        }
    }

    for (int i = 0; i < 12; i++) {
        dst[base + i] = p[i];
    }
}
`
